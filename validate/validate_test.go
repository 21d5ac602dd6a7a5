package validate

import (
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/require"
	"github.com/wrapsnp/go-directory/pkg/types"
)

func validFields() ProfileFields {
	return ProfileFields{
		CompanyName:   "Mustermann Folien",
		ContactPerson: "Max Mustermann",
		Phone:         "+49 30 1234567",
		Website:       "https://mustermann-folien.de",
		Description:   "Fahrzeugvollverklebung und Teilfolierung.",
		Address:       "Musterstraße 1, 10115 Berlin",
	}
}

func TestProfileFields_Valid(t *testing.T) {
	require.NoError(t, validFields().Validate())
}

func TestProfileFields_CompanyNameRequired(t *testing.T) {
	f := validFields()
	f.CompanyName = ""
	err := f.Validate()
	require.Error(t, err)

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	require.Contains(t, verrs, "CompanyName")
}

func TestProfileFields_WebsiteMustBeAbsolute(t *testing.T) {
	f := validFields()
	f.Website = "mustermann-folien.de"
	err := f.Validate()
	require.Error(t, err)

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	require.Contains(t, verrs, "Website")

	f.Website = ""
	require.NoError(t, f.Validate())
}

func TestProfileFields_DescriptionCeiling(t *testing.T) {
	f := validFields()
	f.Description = strings.Repeat("x", maxDescriptionLen+1)
	require.Error(t, f.Validate())

	f.Description = strings.Repeat("x", maxDescriptionLen)
	require.NoError(t, f.Validate())
}

func TestUpload_EmptyIsNoOp(t *testing.T) {
	require.NoError(t, Upload(nil, LogoMaxBytes))
	require.NoError(t, Upload(&types.Upload{}, LogoMaxBytes))
}

func TestUpload_SizeCeiling(t *testing.T) {
	u := &types.Upload{
		Filename:    "logo.png",
		ContentType: "image/png",
		Size:        6 << 20,
		Content:     strings.NewReader("x"),
	}
	err := Upload(u, LogoMaxBytes)
	require.Error(t, err)

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	require.Contains(t, verrs["file_size"].Error(), "maximum size")
}

func TestUpload_ReportsEveryViolation(t *testing.T) {
	u := &types.Upload{
		Filename:    "huge.pdf",
		ContentType: "application/pdf",
		Size:        6 << 20,
		Content:     strings.NewReader("x"),
	}
	err := Upload(u, LogoMaxBytes)
	require.Error(t, err)

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	require.Contains(t, verrs["file_size"].Error(), "maximum size")
	require.Contains(t, verrs["file_type"].Error(), "unsupported file type")
}

func TestUpload_MimeAllowList(t *testing.T) {
	u := &types.Upload{
		Filename:    "brochure.pdf",
		ContentType: "application/pdf",
		Size:        1024,
		Content:     strings.NewReader("x"),
	}
	require.Error(t, Upload(u, LogoMaxBytes))

	u.ContentType = "image/webp"
	u.Filename = "logo.webp"
	require.NoError(t, Upload(u, LogoMaxBytes))
}

func TestIsValidationError(t *testing.T) {
	f := validFields()
	f.CompanyName = ""
	require.True(t, IsValidationError(f.Validate()))
	require.False(t, IsValidationError(types.ErrNameTaken))
}
