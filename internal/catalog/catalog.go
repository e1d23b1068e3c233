// Package catalog holds the built-in music tracks that ship with the service.
package catalog

import "github.com/starford/moodmusic/internal/mood"

// Asset is a built-in track with a pre-authored playable range.
type Asset struct {
	File  string  // name relative to the music root
	Start float64 // seconds
	End   float64 // seconds
	Mood  mood.Mood
}

var builtin = []Asset{
	{File: "Sly Sky - Telecasted.mp3", Start: 0, End: 152, Mood: mood.Melancholic},
	{File: "No.2 Remembering Her - Esther Abrami.mp3", Start: 2, End: 134, Mood: mood.Melancholic},
	{File: "Champion - Telecasted.mp3", Start: 0, End: 142, Mood: mood.Chill},
	{File: "Oh Please - Telecasted.mp3", Start: 0, End: 154, Mood: mood.Chill},
	{File: "Jetski - Telecasted.mp3", Start: 0, End: 142, Mood: mood.Uneasy},
	{File: "Phantom - Density & Time.mp3", Start: 0, End: 178, Mood: mood.Uneasy},
	{File: "On The Hunt - Andrew Langdon.mp3", Start: 0, End: 95, Mood: mood.Uneasy},
	{File: "Name The Time And Place - Telecasted.mp3", Start: 0, End: 142, Mood: mood.Excited},
	{File: "Delayed Baggage - Ryan Stasik.mp3", Start: 3, End: 108, Mood: mood.Euphoric},
	{File: "Like It Loud - Dyalla.mp3", Start: 4, End: 160, Mood: mood.Euphoric},
	{File: "Organic Guitar House - Dyalla.mp3", Start: 2, End: 160, Mood: mood.Euphoric},
	{File: "Honey, I Dismembered The Kids - Ezra Lipp.mp3", Start: 2, End: 144, Mood: mood.Dark},
	{File: "Night Hunt - Jimena Contreras.mp3", Start: 0, End: 88, Mood: mood.Dark},
	{File: "Curse of the Witches - Jimena Contreras.mp3", Start: 0, End: 102, Mood: mood.Dark},
	{File: "Restless Heart - Jimena Contreras.mp3", Start: 0, End: 94, Mood: mood.Sad},
	{File: "Heartbeat Of The Wind - Asher Fulero.mp3", Start: 0, End: 124, Mood: mood.Sad},
	{File: "Hopeless - Jimena Contreras.mp3", Start: 0, End: 250, Mood: mood.Sad},
	{File: "Touch - Anno Domini Beats.mp3", Start: 0, End: 165, Mood: mood.Happy},
	{File: "Cafecito por la Manana - Cumbia Deli.mp3", Start: 0, End: 184, Mood: mood.Happy},
	{File: "Aurora on the Boulevard - National Sweetheart.mp3", Start: 0, End: 130, Mood: mood.Happy},
	{File: "Buckle Up - Jeremy Korpas.mp3", Start: 0, End: 128, Mood: mood.Angry},
	{File: "Twin Engines - Jeremy Korpas.mp3", Start: 0, End: 120, Mood: mood.Angry},
	{File: "Hopeful - Nat Keefe.mp3", Start: 0, End: 175, Mood: mood.Hopeful},
	{File: "Hopeful Freedom - Asher Fulero.mp3", Start: 1, End: 172, Mood: mood.Hopeful},
	{File: "Crystaline - Quincas Moreira.mp3", Start: 0, End: 140, Mood: mood.Contemplative},
	{File: "Final Soliloquy - Asher Fulero.mp3", Start: 1, End: 178, Mood: mood.Contemplative},
	{File: "Seagull - Telecasted.mp3", Start: 0, End: 123, Mood: mood.Funny},
	{File: "Banjo Doops - Joel Cummins.mp3", Start: 0, End: 98, Mood: mood.Funny},
	{File: "Baby Animals Playing - Joel Cummins.mp3", Start: 0, End: 124, Mood: mood.Funny},
	{File: "Sinister - Anno Domini Beats.mp3", Start: 0, End: 215, Mood: mood.Dark},
	{File: "Traversing - Godmode.mp3", Start: 0, End: 95, Mood: mood.Dark},
}

// Builtin returns a copy of the built-in catalog.
func Builtin() []Asset {
	out := make([]Asset, len(builtin))
	copy(out, builtin)
	return out
}

// ByMood returns the built-in assets tagged with m.
func ByMood(assets []Asset, m mood.Mood) []Asset {
	var out []Asset
	for _, a := range assets {
		if a.Mood == m {
			out = append(out, a)
		}
	}
	return out
}
