package core

import "strings"

// Medium groups, in classification priority order.
const (
	MediumPhotographs    = "Photographs"
	MediumPrints         = "Prints"
	MediumDrawings       = "Drawings"
	MediumPaintings      = "Paintings"
	MediumSculpture      = "Sculpture"
	MediumTextiles       = "Textiles"
	MediumDecorativeArts = "Decorative arts"
	MediumOther          = "Other"
)

// MediumRule assigns Group to any text containing one of Keywords.
type MediumRule struct {
	Group    string
	Keywords []string
}

// MediumRules is evaluated top to bottom; the first hit wins.
// Keywords are lowercase substrings, so "print" also matches "screenprint"
// and "photo " needs its trailing space to avoid "photogravure".
var MediumRules = []MediumRule{
	{MediumPhotographs, []string{"photograph", "gelatin silver", "albumen print", "photo "}},
	{MediumPrints, []string{"print", "engraving", "etching", "lithograph", "woodcut", "screenprint"}},
	{MediumDrawings, []string{"drawing", "graphite", "pencil", "pen and ink", "watercolor", "watercolour"}},
	{MediumPaintings, []string{"painting", "oil on canvas", "tempera", "acrylic"}},
	{MediumSculpture, []string{"sculpture", "bronze", "marble", "carved stone"}},
	{MediumTextiles, []string{"textile", "tapestry", "silk", "cotton", "linen", "wool"}},
	{MediumDecorativeArts, []string{
		"ceramic", "porcelain", "earthenware", "stoneware", "pottery",
		"glass", "furniture", "decorative art",
	}},
}

// Classifier maps free-text classification and medium to a medium group.
type Classifier struct {
	Rules    []MediumRule
	Fallback string
}

// DefaultClassifier uses MediumRules and falls back to Other.
var DefaultClassifier = Classifier{Rules: MediumRules, Fallback: MediumOther}

// Classify lowercases both fields, joins them with a space and returns the
// group of the first rule with a matching keyword.
func (c Classifier) Classify(classification, medium string) string {
	text := strings.ToLower(classification) + " " + strings.ToLower(medium)

	for _, rule := range c.Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule.Group
			}
		}
	}
	return c.Fallback
}

// Groups lists every group the classifier can return, fallback last.
func (c Classifier) Groups() []string {
	groups := make([]string, 0, len(c.Rules)+1)
	for _, r := range c.Rules {
		groups = append(groups, r.Group)
	}
	return append(groups, c.Fallback)
}

// ClassifyMedium classifies with DefaultClassifier.
func ClassifyMedium(classification, medium string) string {
	return DefaultClassifier.Classify(classification, medium)
}
