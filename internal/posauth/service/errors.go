package service

import "errors"

var (
	ErrInvalidShop        = errors.New("service: invalid shop domain")
	ErrShopNotInstalled   = errors.New("service: shop not installed")
	ErrMissingAccessToken = errors.New("service: missing access token")
	ErrInvalidCreditNote  = errors.New("service: invalid credit note")
	ErrDuplicateCode      = errors.New("service: credit note code already used")
	ErrNoAdminSession     = errors.New("service: no admin session")
)
