// Package testutil groups test helpers; generated mocks live in its subpackages.
package testutil

//go:generate mockgen -destination=iomock/reader.go -package=iomock io Reader
