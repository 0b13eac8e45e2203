package emails

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplate(t *testing.T) {
	TemplateDir = "templates"

	html := loadTemplate("attendance_marked", map[string]any{
		"NAME":         "Ada",
		"SESSION_NAME": "Data Structures",
		"MARKED_AT":    "09:05",
	})
	require.NotNil(t, html)
	assert.Contains(t, *html, "Data Structures")

	html = loadTemplate("daily_report", map[string]any{"NAME": "Ada", "DATE": "2025-05-05"})
	require.NotNil(t, html)
	assert.Contains(t, *html, "did not mark attendance")

	assert.Nil(t, loadTemplate("missing_template", nil))
	assert.True(t, LogService{}.SendEmail("ada@rollcall.io", "subject", "monthly_report", map[string]any{"NAME": "Ada"}))
}
