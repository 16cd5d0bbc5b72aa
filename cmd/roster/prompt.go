package main

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
)

// prompter asks the user for input on the terminal.
type prompter interface {
	// Input asks for a value. validate returns an error message or "".
	Input(label, placeholder, initial string, validate func(string) string) (string, error)
	Confirm(message string) (bool, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Input(label, placeholder, initial string, validate func(string) string) (string, error) {
	prompt := &survey.Input{
		Message: label + ":",
		Default: initial,
		Help:    "e.g. " + placeholder,
	}
	var out string
	validator := func(ans interface{}) error {
		s, _ := ans.(string)
		if msg := validate(s); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
	if err := survey.AskOne(prompt, &out, survey.WithValidator(validator)); err != nil {
		return "", err
	}
	return out, nil
}

func (surveyPrompter) Confirm(message string) (bool, error) {
	var out bool
	if err := survey.AskOne(&survey.Confirm{Message: message}, &out); err != nil {
		return false, err
	}
	return out, nil
}
