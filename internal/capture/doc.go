// Package capture supervises external ffmpeg processes: building argument
// vectors for screen-capture and conversion jobs, spawning the process,
// pumping its diagnostic stream, and executing the graceful-stop protocol.
package capture
