package upload

import (
	"fmt"
	"sort"
	"strings"
)

// Message keys passed to the Translator.
const (
	MsgSuccessSingle   = "upload.success.single"
	MsgSuccessCount    = "upload.success.count"    // {count}
	MsgPartial         = "upload.partial"          // {success}, {failed}
	MsgFailed          = "upload.failed"           // no params
	MsgUnsupported     = "upload.unsupported"      // {types}
	MsgCaptionFallback = "upload.caption_fallback" // {count}
)

// Summary is the outcome of one batch.
type Summary struct {
	Succeeded       int
	Failed          int
	CaptionFallback int // successes whose caption came from the filename
	Rejected        []string
}

// Message returns the key, parameters and severity of the notification
// summarizing s. ok is false when nothing should be shown.
func (s Summary) Message() (key string, params map[string]any, sev Severity, ok bool) {
	switch {
	case s.Succeeded == 1 && s.Failed == 0:
		return MsgSuccessSingle, nil, SeveritySuccess, true
	case s.Succeeded > 1 && s.Failed == 0:
		return MsgSuccessCount, map[string]any{"count": s.Succeeded}, SeveritySuccess, true
	case s.Succeeded > 0 && s.Failed > 0:
		return MsgPartial, map[string]any{"success": s.Succeeded, "failed": s.Failed}, SeverityWarning, true
	case s.Succeeded == 0 && s.Failed > 0:
		return MsgFailed, nil, SeverityError, true
	}
	return "", nil, 0, false
}

// fallbackTranslator renders keys with English text when no Translator is
// configured.
type fallbackTranslator struct{}

var fallbackMessages = map[string]string{
	MsgSuccessSingle:   "Image uploaded",
	MsgSuccessCount:    "{count} images uploaded",
	MsgPartial:         "{success} images uploaded, {failed} failed",
	MsgFailed:          "Image upload failed",
	MsgUnsupported:     "Unsupported file type: {types}",
	MsgCaptionFallback: "Caption generation failed for {count} images; the filename was used instead",
}

func (fallbackTranslator) T(key string, params map[string]any) string {
	msg, ok := fallbackMessages[key]
	if !ok {
		msg = key
	}
	return Expand(msg, params, func(v any) string { return fmt.Sprint(v) })
}

// Expand replaces {name} placeholders in msg with params formatted by
// format. Unknown placeholders are left as they are.
func Expand(msg string, params map[string]any, format func(any) string) string {
	if len(params) == 0 {
		return msg
	}
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)
	pairs := make([]string, 0, 2*len(names))
	for _, k := range names {
		pairs = append(pairs, "{"+k+"}", format(params[k]))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
