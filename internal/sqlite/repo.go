package sqlite

import (
	"github.com/jmoiron/sqlx"

	"github.com/njwon19/velolog/internal/velolog"
)

// Ensure Repo implements the Repository interface
var _ velolog.Repository = (*Repo)(nil)

type Repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repo {
	return Repo{db: db}
}
