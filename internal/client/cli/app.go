package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/portfoliorisk/internal/client/apiclient"
	"github.com/dmitrijs2005/portfoliorisk/internal/client/config"
	"github.com/shopspring/decimal"
)

// apiService is the part of apiclient.Client the commands use.
type apiService interface {
	LoggedIn() bool
	Logout()
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Holdings(ctx context.Context) ([]apiclient.Holding, error)
	AddHolding(ctx context.Context, ticker string, quantity decimal.Decimal) (*apiclient.Holding, error)
	UpdateHolding(ctx context.Context, id string, quantity decimal.Decimal) (*apiclient.Holding, error)
	DeleteHolding(ctx context.Context, id string) error
	RunAnalysis(ctx context.Context, startDate, endDate string) (*apiclient.Analysis, error)
	History(ctx context.Context) ([]apiclient.Analysis, error)
	Analysis(ctx context.Context, id string) (*apiclient.Analysis, error)
}

type App struct {
	api    apiService
	reader *bufio.Reader
	out    io.Writer
	email  string
}

func NewApp(c *config.Config) *App {
	return &App{
		api:    apiclient.New(c.ServerURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

func (a *App) Run(ctx context.Context) {
	printlnFn("Portfolio risk client (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}

func (a *App) getStatus() string {
	if a.email == "" {
		return "(guest)"
	}
	return fmt.Sprintf("(%s)", a.email)
}
