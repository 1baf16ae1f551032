package model

// Service is a catalog entry mapping a public service code to a provider
// endpoint. The secret, when set, is attached to outbound provider calls
// and is never serialized to clients.
type Service struct {
	ID          int64   `db:"id" json:"id"`
	Code        string  `db:"code" json:"code"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Endpoint    string  `db:"endpoint" json:"endpoint"`
	Secret      *string `db:"secret" json:"-"`
	IsPublic    bool    `db:"is_public" json:"isPublic"`
	Group       string  `db:"group_name" json:"group"`
}

type CreateServiceParams struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Endpoint    string  `json:"endpoint"`
	Secret      *string `json:"secret,omitempty"`
	IsPublic    bool    `json:"isPublic"`
	Group       string  `json:"group"`
}

type UpdateServiceParams struct {
	Code        *string `json:"code,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Endpoint    *string `json:"endpoint,omitempty"`
	Secret      *string `json:"secret,omitempty"`
	IsPublic    *bool   `json:"isPublic,omitempty"`
	Group       *string `json:"group,omitempty"`
}
