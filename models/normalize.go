package models

import "strings"

func (in *CharacterInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
}

func (in *CharacterEdit) Normalize() {
	in.CharacterID = strings.TrimSpace(in.CharacterID)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
}

func (in *TagInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
}

func (in *TagEdit) Normalize() {
	in.TagID = strings.TrimSpace(in.TagID)
	in.Name = strings.TrimSpace(in.Name)
	in.CoverID = strings.TrimSpace(in.CoverID)
}

// Passwords are kept verbatim.
func (in *UserRegistration) Normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

func (in *UserLogin) Normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}
