// Package services defines shared utilities consumed by the pipeline
// orchestrators and the external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and project folders for logging.
//   - Structured error markers plus the Wrap helper so every failure carries
//     a classification (not found, invalid reference, collaborator failure,
//     persistence failure) that survives wrapping.
//
// Subpackages wrap the external collaborators (WhisperX, yt-dlp) behind the
// narrow contracts the orchestrators consume.
package services
