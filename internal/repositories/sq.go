package repositories

import (
	"errors"

	sq "github.com/Masterminds/squirrel"
)

var SqBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var ErrBadQuery = errors.New("bad query")
