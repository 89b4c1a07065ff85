package qr

import (
	"fmt"
	"image/color"
	"net/url"
	"strings"

	"github.com/Jidetireni/adyc-membership/internal/constants"
	"github.com/Jidetireni/adyc-membership/internal/dto"
	"github.com/skip2/go-qrcode"
)

const imageSize = 512

type Issuer struct {
	baseURL string
}

func NewIssuer(publicBaseURL string) *Issuer {
	return &Issuer{baseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (i *Issuer) VerificationURL(memberID string) string {
	return fmt.Sprintf("%s/verify/%s", i.baseURL, url.PathEscape(memberID))
}

// Issue encodes the member's verification link as a PNG at the highest
// error-correction level.
func (i *Issuer) Issue(memberID string) (*dto.VerificationQR, error) {
	if memberID == "" {
		return nil, fmt.Errorf("empty member id")
	}

	link := i.VerificationURL(memberID)
	code, err := qrcode.New(link, qrcode.Highest)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	g := constants.BrandGreen
	code.ForegroundColor = color.RGBA{R: uint8(g[0]), G: uint8(g[1]), B: uint8(g[2]), A: 0xff}
	code.BackgroundColor = color.White

	png, err := code.PNG(imageSize)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}

	return &dto.VerificationQR{
		Image:           png,
		VerificationURL: link,
	}, nil
}
