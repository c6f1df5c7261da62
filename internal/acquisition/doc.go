// Package acquisition fetches remote audio into a new project.
//
// The Service parses the video reference, asks a Downloader to fetch and
// transcode the best audio stream into a scratch directory, creates a
// youtube project carrying the source metadata and moves the audio into it.
package acquisition
