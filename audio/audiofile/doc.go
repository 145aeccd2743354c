// Package audiofile reads whole audio files into memory and writes PCM WAV.
//
// Decoding is done once per file: a Clip holds every interleaved sample as
// float32 in [-1, 1] together with the sample rate and channel count.
// Supported inputs are WAV, AIFF, MP3 and Ogg Vorbis; output is always WAV.
package audiofile
