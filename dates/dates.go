// Package dates converts the handful of fixed-width timestamp encodings
// used by disk- and optical-image containers into time.Time.
package dates

import "time"

// macEpoch is 1904-01-01 00:00:00 UTC, the origin of classic Mac OS
// timestamps (seconds since, stored as an unsigned 32-bit integer on disk).
var macEpoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

// FromMac converts seconds-since-1904-01-01-UTC into a time.Time.
func FromMac(seconds uint32) time.Time {
	return macEpoch.Add(time.Duration(seconds) * time.Second)
}

// FromUnix converts signed seconds-since-1970-01-01-UTC into a time.Time.
func FromUnix(seconds int32) time.Time {
	return time.Unix(int64(seconds), 0).UTC()
}

// FromUnixUnsigned converts unsigned seconds-since-1970-01-01-UTC into a
// time.Time.
func FromUnixUnsigned(seconds uint32) time.Time {
	return time.Unix(int64(seconds), 0).UTC()
}

// FromDOS decodes an MS-DOS/FAT packed 16-bit date and 16-bit time pair.
//
// Date: bits 15-9 year since 1980, bits 8-5 month (1-12), bits 4-0 day (1-31).
// Time: bits 15-11 hours, bits 10-5 minutes, bits 4-0 seconds/2.
func FromDOS(date, t uint16) time.Time {
	year := int(date>>9) + 1980
	month := time.Month((date >> 5) & 0x0F)
	day := int(date & 0x1F)

	hour := int(t >> 11)
	minute := int((t >> 5) & 0x3F)
	second := int(t&0x1F) * 2

	if month < time.January {
		month = time.January
	}
	if day < 1 {
		day = 1
	}

	return time.Date(year, month, day, hour, minute, second, 0, time.UTC)
}
