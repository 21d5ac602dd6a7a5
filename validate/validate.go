// Package validate checks profile form input and uploads before any network
// or storage side effect runs. Failures are reported as field -> message maps
// suitable for inline rendering next to the offending input.
package validate

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/wrapsnp/go-directory/pkg/types"
)

const (
	// LogoMaxBytes is the upload ceiling for profile logos.
	LogoMaxBytes = 5 << 20
	// MediaMaxBytes is the upload ceiling for portfolio images and
	// certificates.
	MediaMaxBytes = 3 << 20

	maxNameLen        = 200
	maxContactLen     = 200
	maxPhoneLen       = 50
	maxWebsiteLen     = 200
	maxAddressLen     = 300
	maxDescriptionLen = 3000
	maxNarrativeLen   = 2000
	maxTitleLen       = 150
)

// imageTypes is the allow-list of accepted raster image MIME types.
var imageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// ProfileFields carries the raw form values for a profile save.
type ProfileFields struct {
	CompanyName   string
	ContactPerson string
	Phone         string
	Website       string
	Description   string
	Address       string
	Mission       string
	Vision        string
	History       string
}

// Validate enforces presence, URL shape, and length ceilings. It returns a
// validation.Errors map on failure and never touches the network.
func (f ProfileFields) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.CompanyName,
			validation.Required.Error("company name is required"),
			validation.RuneLength(2, maxNameLen)),
		validation.Field(&f.ContactPerson, validation.RuneLength(0, maxContactLen)),
		validation.Field(&f.Phone, validation.RuneLength(0, maxPhoneLen)),
		validation.Field(&f.Website,
			validation.RuneLength(0, maxWebsiteLen),
			validation.By(absoluteURL)),
		validation.Field(&f.Description, validation.RuneLength(0, maxDescriptionLen)),
		validation.Field(&f.Address, validation.RuneLength(0, maxAddressLen)),
		validation.Field(&f.Mission, validation.RuneLength(0, maxNarrativeLen)),
		validation.Field(&f.Vision, validation.RuneLength(0, maxNarrativeLen)),
		validation.Field(&f.History, validation.RuneLength(0, maxNarrativeLen)),
	)
}

// Patch converts the validated fields into a repository patch.
func (f ProfileFields) Patch() types.ProfilePatch {
	return types.ProfilePatch{
		CompanyName:   ptr(strings.TrimSpace(f.CompanyName)),
		ContactPerson: ptr(strings.TrimSpace(f.ContactPerson)),
		Phone:         ptr(strings.TrimSpace(f.Phone)),
		Website:       ptr(strings.TrimSpace(f.Website)),
		Description:   ptr(f.Description),
		Address:       ptr(strings.TrimSpace(f.Address)),
		Mission:       ptr(f.Mission),
		Vision:        ptr(f.Vision),
		History:       ptr(f.History),
	}
}

// ServiceFields carries the raw form values for an installer service entry.
type ServiceFields struct {
	Title       string
	Description string
	Icon        string
}

// Validate enforces presence and length ceilings for service entries.
func (f ServiceFields) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(2, maxTitleLen)),
		validation.Field(&f.Description, validation.RuneLength(0, maxNarrativeLen)),
		validation.Field(&f.Icon, validation.RuneLength(0, 100)),
	)
}

// Upload enforces the size ceiling and image MIME allow-list for an incoming
// file. Empty uploads pass: they mean "keep the current asset".
func Upload(u *types.Upload, maxBytes int64) error {
	if u.Empty() {
		return nil
	}
	errs := validation.Errors{}
	if u.Size > maxBytes {
		errs["file_size"] = fmt.Errorf("file exceeds the maximum size of %d MB", maxBytes>>20)
	}
	contentType := strings.ToLower(strings.TrimSpace(u.ContentType))
	if _, ok := imageTypes[contentType]; !ok {
		errs["file_type"] = fmt.Errorf("unsupported file type %q: expected a jpeg, png, webp, or gif image", u.ContentType)
	}
	return errs.Filter()
}

// IsValidationError reports whether err came out of this package (or ozzo
// directly), so transports can render it inline instead of as a banner.
func IsValidationError(err error) bool {
	var verrs validation.Errors
	return errors.As(err, &verrs)
}

func absoluteURL(value any) error {
	raw, _ := value.(string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("must be an absolute URL (https://...)")
	}
	return nil
}

func ptr(s string) *string { return &s }
