package helpers

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"mime/multipart"
	"regexp"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"golang.org/x/crypto/bcrypt"
)

const RoomFolder = "rooms"

// HashPassword returns the one-way bcrypt hash stored in place of the
// plaintext credential.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a stored hash against a candidate in constant time.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

var specialCharRe = regexp.MustCompile(`[!@#$%^&*]`)

// IsPasswordStrong enforces the password policy: 8+ characters with at
// least one special character.
func IsPasswordStrong(password string) bool {
	return len(password) >= 8 && specialCharRe.MatchString(password)
}

// GenerateOTP returns a 6-digit one-time passcode from a crypto-grade
// random source.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// UploadMultipartImages streams uploaded form files to Cloudinary and
// returns their secure URLs in upload order.
func UploadMultipartImages(ctx context.Context, cld *cloudinary.Cloudinary, files []*multipart.FileHeader, folder string) ([]string, error) {
	var urls []string
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open image %s: %v", fh.Filename, err)
		}
		uploadResult, err := cld.Upload.Upload(ctx, f, uploader.UploadParams{
			Folder: folder,
			Tags:   []string{"resort-api"},
		})
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to upload image %s: %v", fh.Filename, err)
		}
		urls = append(urls, uploadResult.SecureURL)
	}
	return urls, nil
}
