// Package config provides configuration structures and utilities for the
// shareholders tool. It defines the API credential and endpoint settings,
// the endpoint profiles and the input and output locations.
package config
