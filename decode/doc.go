// Package decode pulls raw RGBA video frames out of a media file.
//
// It shells out to ffprobe for stream metadata and to ffmpeg for decoding,
// reading frames from a rawvideo pipe one at a time. A [Stream] is a finite,
// pull-based sequence: [Stream.Next] returns [io.EOF] once the source is
// exhausted, and [Stream.Restart] rewinds to the first frame by restarting
// the pipe.
package decode
