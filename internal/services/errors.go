package services

import "errors"

var (
	ErrStructure      = errors.New("invalid sheet structure")
	ErrIdentifier     = errors.New("invalid meter identifier")
	ErrHeaderNotFound = errors.New("header row not found")
	ErrColumnNotFound = errors.New("column not found")
	ErrAlignment      = errors.New("series length mismatch")
	ErrMapping        = errors.New("meter mapping not found")
)
