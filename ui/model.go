// Package ui is the terminal front-end for the browse controller.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"moviefinder/models"
)

// CarouselInterval is how long each trending backdrop stays on screen.
const CarouselInterval = 3 * time.Second

const tagline = "Find Movies You'll Enjoy Without the Hassle"

// Browser is the part of the browse controller the model drives.
type Browser interface {
	SetSearchTerm(term string)
	Snapshot() models.BrowseState
}

// StateMsg carries a controller snapshot into the update loop.
type StateMsg models.BrowseState

type carouselTickMsg time.Time

// Model renders the browse screen: trending carousel, search box, trending
// list and results.
type Model struct {
	browser  Browser
	input    textinput.Model
	spinner  spinner.Model
	state    models.BrowseState
	slide    int
	width    int
	interval time.Duration
}

// New builds a Model seeded with the controller's current state.
func New(b Browser) Model {
	state := b.Snapshot()

	ti := textinput.New()
	ti.Placeholder = "Search through thousands of movies"
	ti.CharLimit = 200
	ti.Width = 48
	ti.SetValue(state.SearchTerm)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = highlightStyle

	return Model{
		browser:  b,
		input:    ti,
		spinner:  sp,
		state:    state,
		interval: CarouselInterval,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.carouselTick())
}

func (m Model) carouselTick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return carouselTickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}
		var cmd tea.Cmd
		before := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if after := m.input.Value(); after != before {
			m.browser.SetSearchTerm(after)
		}
		return m, cmd

	case StateMsg:
		// listeners deliver out of order
		if msg.Version < m.state.Version {
			return m, nil
		}
		m.state = models.BrowseState(msg)
		if m.slide >= len(m.state.Trending) {
			m.slide = 0
		}
		return m, nil

	case carouselTickMsg:
		if n := len(m.state.Trending); n > 0 {
			m.slide = (m.slide + 1) % n
		}
		return m, m.carouselTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 8; w > 0 {
			m.input.Width = min(w, 48)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	if slide := m.carouselView(); slide != "" {
		b.WriteString(slide)
		b.WriteString("\n")
	}
	b.WriteString(taglineStyle.Render(tagline))
	b.WriteString("\n")
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n")

	if m.state.ShowTrending() && len(m.state.Trending) > 0 {
		b.WriteString(sectionStyle.Render("Trending Now"))
		b.WriteString("\n")
		for i, movie := range m.state.Trending {
			fmt.Fprintf(&b, "%s %s\n", highlightStyle.Render(fmt.Sprintf("%d", i+1)), movie.DisplayTitle())
		}
	}

	b.WriteString(sectionStyle.Render(m.state.Heading()))
	b.WriteString("\n")
	switch {
	case m.state.Loading:
		fmt.Fprintf(&b, "%s Loading...\n", m.spinner.View())
	case m.state.ErrorMessage != "":
		b.WriteString(errorStyle.Render(m.state.ErrorMessage))
		b.WriteString("\n")
	case len(m.state.Movies) == 0:
		b.WriteString("No movies found.\n")
	default:
		for _, movie := range m.state.Movies {
			b.WriteString(movieLine(movie))
			b.WriteString("\n")
		}
	}

	b.WriteString(helpStyle.Render("type to search • esc quit"))
	return b.String()
}

func (m Model) carouselView() string {
	n := len(m.state.Trending)
	if n == 0 {
		return ""
	}
	movie := m.state.Trending[m.slide%n]

	dots := make([]string, n)
	for i := range dots {
		if i == m.slide%n {
			dots[i] = activeDot
		} else {
			dots[i] = inactiveDot
		}
	}
	return slideStyle.Render(highlightStyle.Render(movie.DisplayTitle()) + "\n" + strings.Join(dots, " "))
}

func movieLine(movie models.Movie) string {
	lang := movie.OriginalLanguage
	if lang == "" {
		lang = "N/A"
	}
	meta := fmt.Sprintf("★ %s • %s • %s", movie.RatingLabel(), lang, movie.YearLabel())
	return movie.DisplayTitle() + "  " + metaStyle.Render(meta)
}
