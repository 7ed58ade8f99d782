package systemprompt

// ContextProvider is an interface that defines the title and info of a context provider
type ContextProvider interface {
	Title() string
	Info() string
}

// TextProvider is a ContextProvider over a fixed block of text
type TextProvider struct {
	title string
	text  string
}

var _ ContextProvider = (*TextProvider)(nil)

func NewTextProvider(title string, text string) *TextProvider {
	return &TextProvider{title: title, text: text}
}

func (p *TextProvider) Title() string {
	return p.title
}

func (p *TextProvider) Info() string {
	return p.text
}

// FuncProvider computes its info on every Generate call
type FuncProvider struct {
	title string
	fn    func() string
}

var _ ContextProvider = (*FuncProvider)(nil)

func NewFuncProvider(title string, fn func() string) *FuncProvider {
	return &FuncProvider{title: title, fn: fn}
}

func (p *FuncProvider) Title() string {
	return p.title
}

func (p *FuncProvider) Info() string {
	if p.fn == nil {
		return ""
	}
	return p.fn()
}
