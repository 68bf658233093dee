package pdf

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	ledongthuc "github.com/ledongthuc/pdf"
)

// CourseDraft - структура курса, извлеченная из PDF.
// Сервис превращает ее в обычный запрос на создание курса.
type CourseDraft struct {
	Title          string
	Subtitle       string
	Type           string
	TimeToEndL     string
	Color          string
	Icon           string
	IconType       string
	TitleForCourse string
	Sections       []SectionDraft
}

type SectionDraft struct {
	Name    string
	Lessons []LessonDraft
}

type LessonDraft struct {
	Name        string
	Description string
}

// Заголовки нумеруются точечной нотацией до 6 уровней: "3", "3.1", "3.1.2" и т.д.
const maxHeadingLevel = 6

var (
	numberedRes  [maxHeadingLevel]*regexp.Regexp
	introRe      = regexp.MustCompile(`(?m)^[ \t]*(Введение|Предисловие|Вступление|Аннотация)[ \t.]*(.*)$`)
	unnumberedRe = regexp.MustCompile(`(?m)^[ \t]*([A-ZА-ЯЁ][A-ZА-ЯЁa-zа-яё ]{2,})$`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

func init() {
	for level := 1; level <= maxHeadingLevel; level++ {
		pattern := `(?m)^[ \t]*(\d+` + strings.Repeat(`\.\d+`, level-1) + `)\.?[ \t]+([^\n]+)$`
		numberedRes[level-1] = regexp.MustCompile(pattern)
	}
}

type heading struct {
	number string
	title  string
	level  int
	start  int // позиция начала строки заголовка в тексте
	end    int // позиция конца строки заголовка
}

// ExtractText извлекает полный текст PDF документа
func ExtractText(r io.ReaderAt, size int64) (string, error) {
	reader, err := ledongthuc.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return sb.String(), nil
}

// ParseCourse строит черновик курса из текста документа.
// Заголовки первого уровня становятся секциями, более глубокие - уроками
// внутри секции своего первого уровня. Вводные заголовки (Введение и т.п.)
// собираются в отдельную секцию "Введение".
func ParseCourse(text, filename string) *CourseDraft {
	headings := collectHeadings(text)

	var mains []heading
	for _, h := range headings {
		if h.level == 1 {
			mains = append(mains, h)
		}
	}

	intro := introRe.FindAllStringSubmatch(text, -1)
	unnumbered := unnumberedRe.FindAllStringSubmatch(text, -1)

	draft := &CourseDraft{
		Title:          courseTitle(filename, mains, intro),
		Subtitle:       "Курс, импортированный из PDF",
		Type:           "ДРУГОЕ",
		TimeToEndL:     "В СОБСТВЕННОМ ТЕМПЕ",
		Color:          "#2d82b7",
		Icon:           "",
		IconType:       "programIcon",
		TitleForCourse: fmt.Sprintf("Курс создан автоматически из PDF-файла: %s", filename),
	}

	// Секция введения идет первой
	if len(intro) > 0 {
		section := SectionDraft{Name: "Введение"}
		for _, m := range intro {
			name := m[1]
			if m[2] != "" {
				name = m[1] + " " + m[2]
			}
			section.Lessons = append(section.Lessons, LessonDraft{
				Name:        truncate(name, 50),
				Description: fmt.Sprintf("<h2>%s</h2><p>%s</p>", m[1], m[2]),
			})
		}
		// Ненумерованные ALL-CAPS заголовки тоже попадают во введение,
		// но не больше трех
		for i, m := range unnumbered {
			if i >= 3 {
				break
			}
			section.Lessons = append(section.Lessons, LessonDraft{
				Name:        truncate(m[1], 50),
				Description: fmt.Sprintf("<h3>%s</h3>", m[1]),
			})
		}
		draft.Sections = append(draft.Sections, section)
	}

	// Основные секции в порядке появления, уроки группируются
	// по первому сегменту номера
	sectionIdx := make(map[string]int)
	for _, h := range mains {
		sectionIdx[h.number] = len(draft.Sections)
		draft.Sections = append(draft.Sections, SectionDraft{Name: h.title})
	}

	for _, h := range headings {
		if h.level == 1 {
			continue
		}
		mainID := strings.SplitN(h.number, ".", 2)[0]
		idx, ok := sectionIdx[mainID]
		if !ok {
			continue
		}
		draft.Sections[idx].Lessons = append(draft.Sections[idx].Lessons, LessonDraft{
			Name:        h.title,
			Description: describeHeading(text, headings, h),
		})
	}

	return draft
}

// collectHeadings находит все нумерованные заголовки и сортирует их
// по позиции в тексте
func collectHeadings(text string) []heading {
	var out []heading
	for level := 1; level <= maxHeadingLevel; level++ {
		for _, loc := range numberedRes[level-1].FindAllStringSubmatchIndex(text, -1) {
			number := text[loc[2]:loc[3]]
			// Регулярка уровня N цепляет и более глубокие номера,
			// оставляем только точное совпадение уровня
			if strings.Count(number, ".") != level-1 {
				continue
			}
			out = append(out, heading{
				number: number,
				title:  strings.TrimSpace(text[loc[4]:loc[5]]),
				level:  level,
				start:  loc[0],
				end:    loc[1],
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

// describeHeading возвращает HTML-описание урока: текст между заголовком
// и следующим заголовком того же или более высокого уровня
func describeHeading(text string, headings []heading, h heading) string {
	next := len(text)
	for _, other := range headings {
		if other.start > h.start && other.level <= h.level {
			next = other.start
			break
		}
	}

	content := strings.TrimSpace(text[h.end:next])
	if content == "" {
		return fmt.Sprintf("<h2>%s</h2>", h.title)
	}
	content = spaceRe.ReplaceAllString(content, " ")
	return fmt.Sprintf("<h2>%s</h2><div class='content'>%s</div>", h.title, content)
}

func courseTitle(filename string, mains []heading, intro [][]string) string {
	if len(mains) > 0 {
		return mains[0].title
	}
	if len(intro) > 0 {
		title := intro[0][1]
		if intro[0][2] != "" {
			title += " " + intro[0][2]
		}
		return title
	}
	base := filename
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
