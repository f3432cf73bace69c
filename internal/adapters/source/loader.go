// Package source reads the Accounts and Reps tables from delimited text
// (a local file or an http(s) URL such as a published spreadsheet) or from
// an xlsx workbook, coercing the numeric columns.
package source

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/okian/territory/internal/domain/model"
	"github.com/okian/territory/pkg/logger"
)

const defaultHTTPTimeout = 30 * time.Second

// Sources locates the two input tables. Workbook wins over the CSV pair when set.
type Sources struct {
	Accounts string
	Reps     string
	Workbook string
}

// Data is one loaded batch.
type Data struct {
	Accounts []model.Account
	Reps     []model.Rep
}

// Loader fetches and parses Sources.
type Loader struct {
	client *http.Client
	log    logger.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithLogger sets the loader logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		client: &http.Client{Timeout: defaultHTTPTimeout},
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SheetCSVURL returns the CSV export URL of one sheet of a published Google spreadsheet.
func SheetCSVURL(docURL, sheet string) string {
	return strings.TrimRight(docURL, "/") + "/gviz/tq?tqx=out:csv&sheet=" + url.QueryEscape(sheet)
}

// Load reads both tables.
func (l *Loader) Load(ctx context.Context, src Sources) (Data, error) {
	start := time.Now()
	var (
		data Data
		err  error
	)
	switch {
	case src.Workbook != "":
		data, err = l.loadWorkbook(ctx, src.Workbook)
	case src.Accounts != "" && src.Reps != "":
		data, err = l.loadCSV(ctx, src.Accounts, src.Reps)
	default:
		return Data{}, eris.Wrap(ErrUnsupportedFormat, "no workbook or accounts/reps sources configured")
	}
	if err != nil {
		return Data{}, err
	}
	l.log.Info(ctx, "dataset loaded",
		logger.Int("accounts", len(data.Accounts)),
		logger.Int("reps", len(data.Reps)),
		logger.Duration("took", time.Since(start)),
	)
	return data, nil
}

func (l *Loader) loadWorkbook(ctx context.Context, location string) (Data, error) {
	if !isURL(location) {
		switch strings.ToLower(filepath.Ext(location)) {
		case ".xlsx", ".xlsm", ".xltx", ".xltm":
		default:
			return Data{}, eris.Wrapf(ErrUnsupportedFormat, "workbook %s", location)
		}
	}
	rc, err := l.open(ctx, location)
	if err != nil {
		return Data{}, err
	}
	defer func() { _ = rc.Close() }()

	accounts, reps, err := ReadWorkbook(rc)
	if err != nil {
		return Data{}, eris.Wrapf(err, "workbook %s", location)
	}
	return Data{Accounts: accounts, Reps: reps}, nil
}

func (l *Loader) loadCSV(ctx context.Context, accountsLoc, repsLoc string) (Data, error) {
	accountRows, err := l.readTable(ctx, accountsLoc)
	if err != nil {
		return Data{}, err
	}
	accounts, err := ParseAccounts(accountRows)
	if err != nil {
		return Data{}, eris.Wrapf(err, "%s", accountsLoc)
	}

	repRows, err := l.readTable(ctx, repsLoc)
	if err != nil {
		return Data{}, err
	}
	reps, err := ParseReps(repRows)
	if err != nil {
		return Data{}, eris.Wrapf(err, "%s", repsLoc)
	}
	return Data{Accounts: accounts, Reps: reps}, nil
}

func (l *Loader) readTable(ctx context.Context, location string) ([][]string, error) {
	if !isURL(location) {
		switch strings.ToLower(filepath.Ext(location)) {
		case ".xlsx", ".xlsm", ".xls":
			return nil, eris.Wrapf(ErrUnsupportedFormat, "%s is a workbook, configure it as workbook_path", location)
		}
	}
	rc, err := l.open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	rows, err := ReadCSV(rc)
	if err != nil {
		return nil, eris.Wrapf(err, "%s", location)
	}
	return rows, nil
}

func (l *Loader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !isURL(location) {
		f, err := os.Open(location)
		if err != nil {
			return nil, eris.Wrapf(ErrFetch, "open %s: %v", location, err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, eris.Wrapf(ErrFetch, "build request %s: %v", location, err)
	}
	l.log.Debug(ctx, "fetching source", logger.String("url", location))
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(ErrFetch, "get %s: %v", location, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, eris.Wrapf(ErrFetch, "get %s: status %d", location, resp.StatusCode)
	}
	return resp.Body, nil
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
