// Package cdrom collects the CD-specific primitives shared by every
// optical-image plugin: MSF addressing, the CD scrambler, TOC record
// encoding, and the raw-sector tag offset table.
package cdrom

const (
	framesPerSecond = 75
	secondsPerMinute = 60
	pregapFrames     = 2 * framesPerSecond // 2 seconds of pregap, LBA 0 == 00:02:00
)

// MSF is a CD Minute-Second-Frame address, optionally carrying an hour
// component for addresses beyond 59:59:74 (used by full-TOC POINT entries).
type MSF struct {
	Hour  uint8
	Min   uint8
	Sec   uint8
	Frame uint8
}

// LBAToMSF converts an absolute LBA (relative to the 2-second pregap, so
// LBA 0 is 00:02:00) into an MSF address.
func LBAToMSF(lba int64) MSF {
	total := lba + pregapFrames

	hours := total / (secondsPerMinute * secondsPerMinute * framesPerSecond)
	total -= hours * secondsPerMinute * secondsPerMinute * framesPerSecond

	minutes := total / (secondsPerMinute * framesPerSecond)
	total -= minutes * secondsPerMinute * framesPerSecond

	seconds := total / framesPerSecond
	frames := total - seconds*framesPerSecond

	return MSF{Hour: uint8(hours), Min: uint8(minutes), Sec: uint8(seconds), Frame: uint8(frames)}
}

// MSFToLBA converts an MSF address (with optional hour component) to an
// absolute LBA, per spec:
//
//	to_lba(h,m,s,f) = h*60*60*75 + m*60*75 + s*75 + f - 150
func MSFToLBA(hour, min, sec, frame uint8) int64 {
	return int64(hour)*secondsPerMinute*secondsPerMinute*framesPerSecond +
		int64(min)*secondsPerMinute*framesPerSecond +
		int64(sec)*framesPerSecond +
		int64(frame) -
		pregapFrames
}
