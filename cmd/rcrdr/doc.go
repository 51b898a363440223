// Command rcrdr records the screen with ffmpeg, converts recordings to GIFs,
// and tracks job history. Run without arguments for usage.
package main
