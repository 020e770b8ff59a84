package app

import (
	"context"
	"fmt"
	"io"

	"github.com/bgunnarsson/rowsql/internal/db"
	"github.com/bgunnarsson/rowsql/internal/print"
	"github.com/bgunnarsson/rowsql/internal/ui"
)

type Format string

const (
	FormatTable  Format = "table"
	FormatJSON   Format = "json"
	FormatStyled Format = "styled"
)

// Request is one list call as the CLI received it.
type Request struct {
	Table  string
	Schema string
	Limit  int
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatJSON, FormatStyled:
		return f, nil
	default:
		return "", &db.InputError{Field: "format", Reason: fmt.Sprintf("unknown format %q (want table, json or styled)", s)}
	}
}

// RunNonInteractive lists the rows once and writes them to w.
func RunNonInteractive(ctx context.Context, svc *Service, req Request, w io.Writer, format Format) error {
	rows, err := svc.ListRows(ctx, req.Table, req.Schema, req.Limit)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		return print.RenderJSON(w, rows)
	case FormatStyled:
		ui.RenderStyled(w, rows)
	default:
		print.RenderTable(w, rows, print.Options{MaxWidth: 60})
	}
	return nil
}

// RunInteractive opens the row browser for req.
func RunInteractive(ctx context.Context, svc *Service, req Request) error {
	label := svc.backend + " " + req.Table
	if req.Schema != "" {
		label = svc.backend + " " + req.Schema + "." + req.Table
	}

	return ui.Run(ctx, label, func(ctx context.Context) ([]db.Row, error) {
		return svc.ListRows(ctx, req.Table, req.Schema, req.Limit)
	})
}
