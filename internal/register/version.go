// internal/register/version.go
package register

import "strconv"

// VersionUnknown is returned by FormatVersion when the buffer is too short.
const VersionUnknown = "Unknown"

// FormatVersion renders a major.minor version register (high byte major).
func FormatVersion(buf []byte) string {
	if len(buf) < 2 {
		return VersionUnknown
	}
	return strconv.Itoa(int(buf[0])) + "." + strconv.Itoa(int(buf[1]))
}
