package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"starwars-api/apperror"
	"starwars-api/confs"
	"starwars-api/db"
	"starwars-api/logging"
	"starwars-api/repositories"
	"starwars-api/usecases"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Width(10)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	skippedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

type status int

const (
	statusCreated status = iota
	statusSkipped
	statusFailed
)

type result struct {
	item   seedItem
	status status
	err    error
}

type seededMsg result

type model struct {
	ctx      context.Context
	seeder   seeder
	items    []seedItem
	results  []result
	done     bool
	quitting bool
}

func newModel(ctx context.Context, s seeder, items []seedItem) model {
	return model{ctx: ctx, seeder: s, items: items}
}

func (m model) Init() tea.Cmd {
	return m.seedNext()
}

// seedNext creates the next pending item. Duplicates are reported as
// skipped so the command can be re-run safely.
func (m model) seedNext() tea.Cmd {
	if len(m.results) >= len(m.items) {
		return nil
	}
	item := m.items[len(m.results)]
	return func() tea.Msg {
		err := m.seeder.create(m.ctx, item)
		switch {
		case err == nil:
			return seededMsg{item: item, status: statusCreated}
		case apperror.IsConflict(err):
			return seededMsg{item: item, status: statusSkipped, err: err}
		default:
			return seededMsg{item: item, status: statusFailed, err: err}
		}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case seededMsg:
		m.results = append(m.results, result(msg))
		if len(m.results) == len(m.items) {
			m.done = true
			return m, tea.Quit
		}
		return m, m.seedNext()
	}

	return m, nil
}

func (m model) counts() (created, skipped, failed int) {
	for _, r := range m.results {
		switch r.status {
		case statusCreated:
			created++
		case statusSkipped:
			skipped++
		case statusFailed:
			failed++
		}
	}
	return
}

// exitCode is 1 when any item failed to seed.
func (m model) exitCode() int {
	if _, _, failed := m.counts(); failed > 0 {
		return 1
	}
	return 0
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Star Wars API seed"))
	s.WriteString("\n")

	for _, r := range m.results {
		s.WriteString(kindStyle.Render(string(r.item.kind)))
		switch r.status {
		case statusCreated:
			s.WriteString(successStyle.Render("created ") + r.item.label)
		case statusSkipped:
			s.WriteString(skippedStyle.Render("exists  " + r.item.label))
		case statusFailed:
			s.WriteString(errorStyle.Render("failed  ") + r.item.label + ": " + r.err.Error())
		}
		s.WriteString("\n")
	}

	if m.done || m.quitting {
		created, skipped, failed := m.counts()
		s.WriteString(fmt.Sprintf("\n%d created, %d already present, %d failed\n", created, skipped, failed))
	} else {
		s.WriteString(fmt.Sprintf("\nSeeding %d/%d... (q to quit)\n", len(m.results)+1, len(m.items)))
	}

	return s.String()
}

func main() {
	os.Exit(run())
}

// run seeds the database and returns the process exit code. Deferred
// cleanup runs before main exits.
func run() int {
	email := flag.String("email", "luke@tatooine.net", "email of the active user to create")
	password := flag.String("password", "changeme", "password of the active user")
	plain := flag.Bool("plain", false, "print the summary without the interactive view")
	flag.Parse()

	cfg, err := confs.LoadConfig()
	if err != nil {
		fmt.Println(errorStyle.Render("Error loading config: " + err.Error()))
		return 1
	}
	logging.Init(logging.Config{Level: "warn", Format: cfg.Log.Format})

	database, err := db.Connect(cfg.Database)
	if err != nil {
		fmt.Println(errorStyle.Render("Failed to connect to DB: " + err.Error()))
		return 1
	}
	defer database.Close()

	s := seeder{
		users:      usecases.NewUserUseCase(repositories.NewUserPgRepository(database)),
		characters: usecases.NewCharacterUseCase(repositories.NewCharacterPgRepository(database)),
		planets:    usecases.NewPlanetUseCase(repositories.NewPlanetPgRepository(database)),
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var opts []tea.ProgramOption
	if *plain {
		opts = append(opts, tea.WithoutRenderer(), tea.WithInput(nil))
	}
	final, err := tea.NewProgram(newModel(ctx, s, defaultItems(*email, *password)), opts...).Run()
	if err != nil {
		fmt.Println("Error:", err)
		return 1
	}

	m := final.(model)
	if *plain {
		fmt.Print(m.View())
	}
	return m.exitCode()
}
