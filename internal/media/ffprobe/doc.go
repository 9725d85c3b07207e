// Package ffprobe runs ffprobe against a video and decodes the handful of
// stream entries the frame reader needs: geometry, frame rate, frame count
// and duration. ffprobe reports frame rates as rationals such as
// "30000/1001"; Stream.FrameRate turns them into floats.
package ffprobe
