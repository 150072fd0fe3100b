// Package util provides small string and buffer helpers shared by the vcard packages.
package util
