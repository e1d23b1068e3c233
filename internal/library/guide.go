package library

// GuideName is the instructions document written at the root of the
// expanded tree on first run.
const GuideName = "README.md"

// Guide explains how to populate the expanded library.
const Guide = `# Expanded Music Library

This directory holds additional music organized by mood. To add more music:

1. Download a music pack (e.g. SuloSounds: https://sulosounds.itch.io/100-songs).
2. Extract the files.
3. Sort them into the matching mood folder below.

New files are picked up on restart, on ` + "`POST /api/music/reload`" + `, or
immediately when ` + "`music.watch`" + ` is enabled.

## Mood folders

- **sad**: melancholic, sorrowful, emotional tracks
- **melancholic**: contemplative, introspective music
- **happy**: upbeat, cheerful, joyful tracks
- **euphoric**: high-energy, exciting, celebratory music
- **excited**: energetic, dynamic, enthusiastic tracks
- **chill**: relaxed, ambient, peaceful music
- **uneasy**: tense, anxious, suspenseful tracks
- **angry**: aggressive, intense, dramatic music
- **dark**: ominous, mysterious, foreboding tracks
- **hopeful**: inspiring, optimistic, uplifting music
- **contemplative**: thoughtful, reflective, meditative tracks
- **funny**: playful, quirky, humorous music

## Supported formats

MP3, WAV, OGG

## Licensing

Make sure any music you add is licensed for your use case.
Creative Commons (CC0, CC-BY) or public domain music is recommended.

## Sources

- SuloSounds (CC0): https://sulosounds.itch.io/100-songs
- xDeviruchi (CC-BY-SA): https://xdeviruchi.itch.io/8-bit-fantasy-adventure-music-pack
- OpenGameArt (CC0): https://opengameart.org/content/cc0-music-0
- Free Music Archive: https://freemusicarchive.org/
`
