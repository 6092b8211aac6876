package users

import (
	"userdash/internal/directory"
	"userdash/internal/form"
)

// DraftRequest is the create/edit form payload.
type DraftRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
}

func (r DraftRequest) toForm() form.Draft {
	return form.Draft{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Avatar:    r.Avatar,
	}
}

func toDirectoryDraft(d form.Draft) directory.Draft {
	return directory.Draft{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Avatar:    d.Avatar,
	}
}

// LocalUserRequest is a fully-formed record for the local-only mutation
// routes. A zero id on add means "assign the next local id".
type LocalUserRequest struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

func (r LocalUserRequest) toUser() directory.User {
	return directory.User{
		ID:        r.ID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Avatar:    r.Avatar,
	}
}
