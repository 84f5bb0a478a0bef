package shortcode

// Widget is the typed payload a shortcode resolves to.
type Widget interface {
	Shortcode() string
}

// CodeBlock is a single highlighted code sample.
type CodeBlock struct {
	Language string
	Code     string
}

// CodeTab is one labelled sample of a CodeTabs widget.
type CodeTab struct {
	FileName string
	Key      string
	Language string
	Code     string
}

// CodeTabs shows several code samples behind file name tabs.
type CodeTabs struct {
	Tabs       []CodeTab
	Expandable bool
}

// Diagram is a single mermaid chart.
type Diagram struct {
	Chart string
}

// DiagramTab is one labelled chart of a DiagramTabs widget.
type DiagramTab struct {
	Label string
	Key   string
	Chart string
}

// DiagramTabs shows several mermaid charts behind tabs.
type DiagramTabs struct {
	Tabs []DiagramTab
}

// ComparisonRow is one numbered row of a side by side comparison.
type ComparisonRow struct {
	Left  []*Node
	Right []*Node
}

// Comparison lays out rows of two columns under two titles.
type Comparison struct {
	Titles [2]string
	Rows   []ComparisonRow
}

// Panel is one labelled section of a Tabs widget.
type Panel struct {
	Label string
	Key   string
	Body  []*Node
}

// Tabs shows arbitrary content behind labelled tabs.
type Tabs struct {
	Panels []Panel
}

// Accordion is a collapsible section.
type Accordion struct {
	Title string
	Body  []*Node
}

// TagList is a row of badges.
type TagList struct {
	Tags []string
}

// HoverCard shows Dropdown when the reader hovers over Target.
type HoverCard struct {
	Target   []*Node
	Dropdown string
	Width    int
}

// ChessBoard is a grid of labelled squares with rank and file markers.
type ChessBoard struct {
	Rows  [][]string
	Files []string
}

func (CodeBlock) Shortcode() string { return "code" }
func (CodeTabs) Shortcode() string { return "code-tabs" }
func (Diagram) Shortcode() string { return "mermaid" }
func (DiagramTabs) Shortcode() string { return "mermaid-tabs" }
func (Comparison) Shortcode() string { return "comparison" }
func (Tabs) Shortcode() string { return "tabs" }
func (Accordion) Shortcode() string { return "accordion" }
func (TagList) Shortcode() string { return "tags" }
func (HoverCard) Shortcode() string { return "hover-card" }
func (ChessBoard) Shortcode() string { return "chessboard" }
