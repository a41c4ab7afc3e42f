package helpers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AvatarFolder       = "avatars"
	VenueImageFolder   = "venues"
	ServiceImageFolder = "services"
)

type CustomClaims struct {
	Role        string `json:"role"`
	Email       string `json:"email"`
	AppMetadata struct {
		Provider  string   `json:"provider"`
		Providers []string `json:"providers"`
		Roles     []string `json:"roles,omitempty"`
	} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

func ValidateToken(tokenStr string) (*CustomClaims, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	if supabaseURL == "" {
		return nil, errors.New("SUPABASE_URL not set")
	}

	jwksURL := fmt.Sprintf("%s/rest/v1/auth/jwks", supabaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx: ctx,
	})
	if err != nil {
		// Fallback to unverified parsing if JWKS fails (for development)
		token, _, parseErr := jwt.NewParser().ParseUnverified(tokenStr, &CustomClaims{})
		if parseErr != nil {
			return nil, fmt.Errorf("JWKS validation failed and fallback parsing failed: %v", parseErr)
		}
		claims, ok := token.Claims.(*CustomClaims)
		if !ok {
			return nil, errors.New("invalid token claims")
		}
		return claims, nil
	}
	defer jwks.EndBackground()

	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, jwks.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	return claims, nil
}

func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`\d`).MatchString(password)
	hasSpecial := regexp.MustCompile(`[@$!%*?&]`).MatchString(password)
	return hasLower && hasUpper && hasNumber && hasSpecial
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug builds a URL-safe slug from a listing name, suffixed with a
// short random fragment so two listings with the same name never collide.
func GenerateSlug(name string) string {
	base := slugCleaner.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = "listing"
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
}

// Uploader wraps the Cloudinary client for photo uploads. A nil Uploader
// is valid and rejects uploads, which keeps local development working
// without Cloudinary credentials.
type Uploader struct {
	cld *cloudinary.Cloudinary
}

func NewUploader(cld *cloudinary.Cloudinary) *Uploader {
	return &Uploader{cld: cld}
}

// UploadImages pushes each file to Cloudinary and returns the secure URLs
// and public ids in input order. The public ids let callers delete the
// assets again if the listing they belong to never gets persisted.
func (u *Uploader) UploadImages(ctx context.Context, files []*multipart.FileHeader, folder string) ([]string, []string, error) {
	if u == nil || u.cld == nil {
		return nil, nil, errors.New("image uploads are not configured")
	}

	var urls, publicIDs []string
	for _, fh := range files {
		if fh == nil {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			return nil, publicIDs, fmt.Errorf("failed to open upload %s: %v", fh.Filename, err)
		}

		uploadResult, err := u.cld.Upload.Upload(ctx, f, uploader.UploadParams{
			Folder: folder,
			Tags:   []string{"envents-app"},
		})
		f.Close()
		if err != nil {
			return nil, publicIDs, fmt.Errorf("failed to upload image %s: %v", fh.Filename, err)
		}

		urls = append(urls, uploadResult.SecureURL)
		publicIDs = append(publicIDs, uploadResult.PublicID)
	}
	return urls, publicIDs, nil
}

// DeleteImages removes previously uploaded assets by public id. Failures
// on individual assets are collected rather than aborting the batch.
func (u *Uploader) DeleteImages(ctx context.Context, publicIDs []string) error {
	if u == nil || u.cld == nil {
		return errors.New("image uploads are not configured")
	}

	var failed []string
	for _, id := range publicIDs {
		if strings.TrimSpace(id) == "" {
			continue
		}
		_, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id})
		if err != nil {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to delete %d image(s): %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}
