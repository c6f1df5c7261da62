// Package ytdlp drives the yt-dlp command-line tool.
//
// Service implements acquisition.Downloader: Download fetches the best audio
// stream and transcodes it with ffmpeg, Info reads metadata only. Both parse
// the single JSON document yt-dlp prints with -J.
package ytdlp
