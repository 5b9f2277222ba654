// Package ambient plays looped nature samples and one-shot UI sounds.
//
// A Player keeps at most one loop. Starting a loop stops the current one;
// FadeOutLoop lowers the current loop to silence in discrete linear steps
// and then rewinds it. Samples come from a Library, which may read WAV
// files from a storage.FileStore or synthesize chimes.
package ambient
