// Package config loads calc's settings from the environment.
package config
