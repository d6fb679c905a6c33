package session

import "strings"

// User-facing Arabic messages. The web and mobile clients render these
// verbatim, so wording changes must stay in sync with them.
const (
	MsgMissingAppointment = "بيانات الموعد غير مكتملة، يرجى تحديث الصفحة والمحاولة مرة أخرى"
	MsgNoActiveSession    = "لا توجد جلسة نشطة"
	MsgGenericFailure     = "حدث خطأ غير متوقع، يرجى المحاولة مرة أخرى"

	// MsgActiveSessionConflict replaces the backend's raw conflict
	// wording with an actionable instruction.
	MsgActiveSessionConflict = "لديك جلسة نشطة أخرى بالفعل، يرجى إنهاء الجلسة الحالية أولاً ثم إعادة المحاولة"
)

// conflictMarkers are the substrings the backend uses when the doctor
// already has another running session. Matching on wording is brittle
// across backend releases; a typed error code is the long-term fix.
var conflictMarkers = []string{
	"جلسة نشطة أخرى",
	"another active session",
	"already has an active session",
}

// IsConflict reports whether a backend message describes the
// one-active-session-per-doctor conflict.
func IsConflict(message string) bool {
	lowered := strings.ToLower(message)
	for _, marker := range conflictMarkers {
		if strings.Contains(lowered, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

// NormalizeMessage maps a backend failure message to the text shown to
// the doctor: conflicts become an actionable instruction, empty
// messages become the generic fallback, anything else passes through.
func NormalizeMessage(message string) string {
	if message == "" {
		return MsgGenericFailure
	}
	if IsConflict(message) {
		return MsgActiveSessionConflict
	}
	return message
}
