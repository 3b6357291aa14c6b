// Package i18n resolves the editor's user-visible messages for a locale.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/slidecraft/chipedit/upload"
)

// Keys for messages outside the upload package.
const (
	MsgSegmentText      = "segment.text"
	MsgSegmentImage     = "segment.image"
	MsgSegmentUploading = "segment.uploading"
	MsgRoundTripOK      = "roundtrip.ok"
	MsgRoundTripFailed  = "roundtrip.failed" // {offset}
)

var catalogs = map[language.Tag]map[string]string{
	language.English: {
		upload.MsgSuccessSingle:   "Image uploaded",
		upload.MsgSuccessCount:    "{count} images uploaded",
		upload.MsgPartial:         "{success} images uploaded, {failed} failed",
		upload.MsgFailed:          "Image upload failed",
		upload.MsgUnsupported:     "Unsupported file type: {types}",
		upload.MsgCaptionFallback: "Caption generation failed for {count} images; the filename was used instead",
		MsgSegmentText:            "text",
		MsgSegmentImage:           "image",
		MsgSegmentUploading:       "uploading",
		MsgRoundTripOK:            "round-trip holds",
		MsgRoundTripFailed:        "round-trip differs at byte {offset}",
	},
	language.Chinese: {
		upload.MsgSuccessSingle:   "图片上传成功",
		upload.MsgSuccessCount:    "已上传 {count} 张图片",
		upload.MsgPartial:         "{success} 张图片上传成功，{failed} 张失败",
		upload.MsgFailed:          "图片上传失败",
		upload.MsgUnsupported:     "不支持的文件类型：{types}",
		upload.MsgCaptionFallback: "{count} 张图片的说明生成失败，已使用文件名代替",
		MsgSegmentText:            "文本",
		MsgSegmentImage:           "图片",
		MsgSegmentUploading:       "上传中",
		MsgRoundTripOK:            "往返一致",
		MsgRoundTripFailed:        "往返结果在第 {offset} 字节处不同",
	},
}

var supported = []language.Tag{language.English, language.Chinese}

var matcher = language.NewMatcher(supported)

// Catalog is the message table of one locale. It implements
// upload.Translator.
type Catalog struct {
	tag      language.Tag
	messages map[string]string
	printer  *message.Printer
}

// New returns the catalog best matching locale, a BCP 47 tag or an
// Accept-Language style list. Unknown or malformed locales get English.
func New(locale string) *Catalog {
	tag := language.English
	if prefs, _, err := language.ParseAcceptLanguage(locale); err == nil && len(prefs) > 0 {
		if _, i, conf := matcher.Match(prefs...); conf != language.No {
			tag = supported[i]
		}
	}
	return &Catalog{
		tag:      tag,
		messages: catalogs[tag],
		printer:  message.NewPrinter(tag),
	}
}

// Tag returns the locale the catalog serves.
func (c *Catalog) Tag() language.Tag { return c.tag }

// T renders key with params substituted for its {name} placeholders.
// Keys missing from the locale fall back to English, then to the key.
func (c *Catalog) T(key string, params map[string]any) string {
	msg, ok := c.messages[key]
	if !ok {
		msg, ok = catalogs[language.English][key]
	}
	if !ok {
		msg = key
	}
	return upload.Expand(msg, params, c.format)
}

func (c *Catalog) format(v any) string {
	switch n := v.(type) {
	case int, int64, int32, uint, uint64, uint32:
		return c.printer.Sprintf("%d", n)
	case float64, float32:
		return c.printer.Sprintf("%g", n)
	}
	return fmt.Sprint(v)
}

var _ upload.Translator = (*Catalog)(nil)
