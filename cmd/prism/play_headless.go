//go:build headless

package main

import "errors"

func runPlay([]string) error {
	return errors.New("play: built without audio output (headless tag)")
}
