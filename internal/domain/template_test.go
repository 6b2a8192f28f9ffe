package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTemplate(t *testing.T) {
	t.Run("Should accept valid templates", func(t *testing.T) {
		for _, template := range []string{
			"{major}",
			"{major}.{minor}",
			"{major}.{minor}.{patch}",
			"V{major}.{minor}.{patch}:_,ab",
			"v{major}-{minor}",
			"release:{major}.{minor}.{patch}",
		} {
			assert.NoError(t, ValidateTemplate(template), "template %q", template)
		}
	})
	t.Run("Should reject an empty template", func(t *testing.T) {
		err := ValidateTemplate("")
		var terr *InvalidTemplateError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "template is empty", terr.Reason)
	})
	t.Run("Should reject illegal characters", func(t *testing.T) {
		for _, template := range []string{"a   b", "a{something}", ",;", "{major}/{minor}"} {
			err := ValidateTemplate(template)
			var terr *InvalidTemplateError
			require.ErrorAs(t, err, &terr, "template %q", template)
			assert.Contains(t, terr.Reason, "illegal character")
		}
	})
	t.Run("Should reject placeholders out of significance order", func(t *testing.T) {
		for _, template := range []string{
			"{patch}",
			"{minor}",
			"{minor}.{patch}",
			"V{major}.{patch}",
		} {
			err := ValidateTemplate(template)
			var terr *InvalidTemplateError
			assert.ErrorAs(t, err, &terr, "template %q", template)
		}
	})
}

func TestCompileTemplate(t *testing.T) {
	t.Run("Should produce named groups for present placeholders", func(t *testing.T) {
		m, err := CompileTemplate("{major}.{minor}.{patch}")
		require.NoError(t, err)
		assert.Contains(t, m.Pattern(), "(?P<major>")
		assert.Contains(t, m.Pattern(), "(?P<minor>")
		assert.Contains(t, m.Pattern(), "(?P<patch>")
	})
	t.Run("Should only produce groups for placeholders in the template", func(t *testing.T) {
		m, err := CompileTemplate("{major}.{minor}")
		require.NoError(t, err)
		assert.NotContains(t, m.Pattern(), "(?P<patch>")
	})
	t.Run("Should match dots literally", func(t *testing.T) {
		m, err := CompileTemplate("{major}.{minor}.{patch}")
		require.NoError(t, err)
		_, err = ParseTag("1x2x3", m)
		assert.Error(t, err)
	})
	t.Run("Should keep the source template", func(t *testing.T) {
		m, err := CompileTemplate("V{major}.{minor}.{patch}:_,ab")
		require.NoError(t, err)
		assert.Equal(t, "V{major}.{minor}.{patch}:_,ab", m.Template())
	})
	t.Run("Should fail on an invalid template", func(t *testing.T) {
		_, err := CompileTemplate("{patch}")
		var terr *InvalidTemplateError
		assert.ErrorAs(t, err, &terr)
	})
}
