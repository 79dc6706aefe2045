package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"burrow/internal/ace"
	"burrow/internal/errors"
	"burrow/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	chainActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#10B981")).
				Bold(true)

	chainBranchStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FBBF24"))

	contentStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	aceTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0F172A")).
			Background(lipgloss.Color("#FBBF24")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type uiMode int

const (
	modeBrowse uiMode = iota
	modeAce
	modeSavePrompt
	modeLoadPick
	modeConfirmDelete
)

type sessionItem struct {
	name string
}

func (i sessionItem) Title() string       { return i.name }
func (i sessionItem) Description() string { return "saved session" }
func (i sessionItem) FilterValue() string { return i.name }

type uiModel struct {
	app  *App
	sess *session.Session

	mode       uiMode
	selector   *ace.Selector
	candidates []Candidate

	savedList list.Model
	nameInput string
	deleteAll bool
	status    string

	width  int
	height int
}

func newUIModel(app *App) uiModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Saved Sessions"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return uiModel{
		app:       app,
		sess:      app.Registry.Recent(),
		savedList: l,
	}
}

func (m uiModel) Init() tea.Cmd {
	return nil
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h, v := docStyle.GetFrameSize()
		m.savedList.SetSize(msg.Width-h, msg.Height-v)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAce:
			return m.updateAce(msg)
		case modeSavePrompt:
			return m.updateSavePrompt(msg)
		case modeLoadPick:
			return m.updateLoadPick(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m uiModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sess == nil {
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "n", "down":
		m.report(m.sess.IndexForward(1))
	case "p", "up":
		m.report(m.sess.IndexForward(-1))
	case "j":
		m.report(m.app.Engine.Scroll(m.sess, 1))
	case "k":
		m.report(m.app.Engine.Scroll(m.sess, -1))
	case "l", "right":
		m.report(m.sess.ChainForward())
	case "h", "left":
		m.report(m.sess.ChainBackward())
	case "tab":
		m.report(m.sess.NextBranch())
	case "shift+tab":
		m.report(m.sess.PrevBranch())
	case "K":
		m.report(m.sess.MoveCurrentUp())
	case "J":
		m.report(m.sess.MoveCurrentDown())
	case "g":
		m.report(m.sess.MakeCurrentFirst())
	case "a":
		return m.startAce()
	case "s":
		m.mode = modeSavePrompt
		m.nameInput = ""
		m.status = "save session as: "
	case "o":
		items := []list.Item{}
		for _, name := range m.app.Registry.Names() {
			items = append(items, sessionItem{name: name})
		}
		m.savedList.SetItems(items)
		m.mode = modeLoadPick
	case "d":
		m.deleteAll = false
		m.mode = modeConfirmDelete
		m.status = "delete the active branch? (y/n)"
	case "D":
		m.deleteAll = true
		m.mode = modeConfirmDelete
		m.status = "delete ALL branches of this entry? (y/n)"
	}
	return m, nil
}

func (m *uiModel) report(err error) {
	if err == nil {
		m.status = ""
		return
	}
	if errors.IsCode(err, errors.CodeValidation) || errors.IsCode(err, errors.CodeNotFound) {
		m.status = err.Error()
		return
	}
	m.status = "internal error: " + err.Error()
}

func (m uiModel) startAce() (tea.Model, tea.Cmd) {
	content := m.app.Engine.Content(m.sess)
	m.candidates = identifierCandidates(content)
	if len(m.candidates) == 0 {
		m.status = "nothing to peek through here"
		return m, nil
	}

	cancel := []rune(m.app.Config.Ace.CancelKeys)
	cancel = append(cancel, '\x1b')
	sel, err := ace.NewSelector(len(m.candidates), []rune(m.app.Config.Ace.Keys), cancel)
	if err != nil {
		m.report(err)
		return m, nil
	}
	m.selector = sel
	m.mode = modeAce
	m.status = "peek through: type the highlighted keys"
	return m, nil
}

func (m uiModel) updateAce(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var key rune
	switch msg.Type {
	case tea.KeyEscape:
		key = '\x1b'
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return m, nil
		}
		key = msg.Runes[0]
	default:
		return m, nil
	}

	outcome, idx := m.selector.Step(key)
	switch outcome {
	case ace.Selected:
		m.finishAce(idx)
	case ace.Cancelled:
		m.mode = modeBrowse
		m.selector = nil
		m.candidates = nil
		m.status = ""
	}
	return m, nil
}

// finishAce maps the picked candidate back to a document position and
// peeks through it.
func (m *uiModel) finishAce(idx int) {
	defer func() {
		m.mode = modeBrowse
		m.selector = nil
		m.candidates = nil
	}()

	c := m.candidates[idx]
	doc, marker, ok := m.app.Engine.Resolve(m.sess)
	if !ok {
		m.status = "document unavailable"
		return
	}
	offset, err := m.sess.LineOffset()
	if err != nil {
		m.report(err)
		return
	}
	line := marker.Line() + offset + c.Row + 1
	if err := m.app.PeekThrough(m.sess, doc.Path(), line, c.Col); err != nil {
		m.report(err)
		return
	}
	m.status = ""
}

func (m uiModel) updateSavePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = modeBrowse
		m.status = ""
	case tea.KeyEnter:
		saved, err := m.app.Registry.Save(m.sess, strings.TrimSpace(m.nameInput))
		switch {
		case errors.IsCode(err, errors.CodeConflict), errors.IsCode(err, errors.CodeValidation):
			// Stay in the prompt and let the user pick another name.
			m.status = err.Error() + "; try another name: "
			m.nameInput = ""
		case err != nil:
			m.report(err)
			m.mode = modeBrowse
		case !saved:
			m.status = fmt.Sprintf("already saved as %q", m.sess.Name())
			m.mode = modeBrowse
		default:
			m.status = fmt.Sprintf("saved as %q", m.sess.Name())
			m.mode = modeBrowse
		}
	case tea.KeyBackspace:
		if len(m.nameInput) > 0 {
			m.nameInput = m.nameInput[:len(m.nameInput)-1]
		}
	case tea.KeyRunes:
		m.nameInput += string(msg.Runes)
	}
	return m, nil
}

func (m uiModel) updateLoadPick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = modeBrowse
		return m, nil
	case tea.KeyEnter:
		if item, ok := m.savedList.SelectedItem().(sessionItem); ok {
			s, err := m.app.Registry.Load(item.name)
			if err != nil {
				m.report(err)
			} else {
				m.sess = s
				m.app.Registry.SetRecent(s)
				m.status = fmt.Sprintf("loaded %q", item.name)
			}
		}
		m.mode = modeBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.savedList, cmd = m.savedList.Update(msg)
	return m, cmd
}

func (m uiModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "y" {
		if m.deleteAll {
			m.report(m.sess.DeleteAllBranches())
		} else {
			m.report(m.sess.DeleteFirstBranch())
		}
	} else {
		m.status = ""
	}
	m.mode = modeBrowse
	return m, nil
}

func (m uiModel) View() string {
	if m.mode == modeLoadPick {
		return docStyle.Render(m.savedList.View())
	}
	if m.sess == nil {
		return docStyle.Render("no active session, q to quit")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("burrow"))
	b.WriteString("  ")
	b.WriteString(m.renderChain())
	b.WriteString("\n\n")
	b.WriteString(contentStyle.Render(m.renderContent()))
	b.WriteString("\n")
	b.WriteString(m.renderEntries())
	b.WriteString("\n")

	status := m.status
	if m.mode == modeSavePrompt {
		status = m.status + m.nameInput
	}
	if status == "" {
		status = "n/p entries · j/k scroll · h/l chain · tab branches · a peek through · s save · o open · q quit"
	}
	b.WriteString(statusStyle.Render(status))

	return docStyle.Render(b.String())
}

func (m uiModel) renderChain() string {
	links, err := m.sess.Chain()
	if err != nil {
		return statusStyle.Render("(chain unavailable)")
	}
	parts := make([]string, 0, len(links))
	for _, link := range links {
		label := link.Symbol
		if label == "" {
			label = "·"
		}
		if link.Branching {
			label = chainBranchStyle.Render(label + "⑂")
		}
		if link.Active {
			label = chainActiveStyle.Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " → ")
}

func (m uiModel) renderContent() string {
	content := m.app.Engine.Content(m.sess)
	if m.mode == modeAce && m.selector != nil {
		return m.renderAceOverlay(content)
	}
	return strings.Join(content, "\n")
}

// renderAceOverlay paints each live candidate's remaining key sequence
// over the start of the candidate text.
func (m uiModel) renderAceOverlay(content []string) string {
	byRow := make(map[int][]int)
	for i, c := range m.candidates {
		if m.selector.Alive(i) {
			byRow[c.Row] = append(byRow[c.Row], i)
		}
	}

	lines := make([]string, len(content))
	for row, line := range content {
		idxs := byRow[row]
		if len(idxs) == 0 {
			lines[row] = line
			continue
		}
		runes := []rune(line)
		var out strings.Builder
		pos := 0
		for _, i := range idxs {
			c := m.candidates[i]
			tag := string(m.selector.Remaining(i))
			if tag == "" || c.Col >= len(runes) {
				continue
			}
			if c.Col > pos {
				out.WriteString(string(runes[pos:c.Col]))
			}
			out.WriteString(aceTagStyle.Render(tag))
			pos = c.Col + len([]rune(tag))
			if pos > len(runes) {
				pos = len(runes)
			}
		}
		if pos < len(runes) {
			out.WriteString(string(runes[pos:]))
		}
		lines[row] = out.String()
	}
	return strings.Join(lines, "\n")
}

func (m uiModel) renderEntries() string {
	views, err := m.sess.VisibleEntries()
	if err != nil {
		return statusStyle.Render("(entries unavailable)")
	}

	var b strings.Builder
	for _, v := range views {
		marker := "  "
		if v.Selected {
			marker = "> "
		}
		branch := ""
		if v.HasBranches {
			branch = fmt.Sprintf("  [%d⑂]", v.Branches)
		}
		line := fmt.Sprintf("%s%s:%d  %s%s", marker, v.Tag.Path, v.Tag.Line, describeTag(v.Tag), branch)
		if v.Selected {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func describeTag(t session.Tag) string {
	if t.Signature != "" {
		return t.Signature
	}
	if t.Name != "" {
		return t.Name
	}
	return t.Kind
}
