package payload

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"igprofiler/pkg/logger"
)

// Strategy produces candidate JSON texts for one embedding convention
type Strategy struct {
	Name       string
	Candidates func(page string) []string
}

var sharedDataPattern = regexp.MustCompile(`(?s)window\._sharedData\s*=\s*(\{.*?\});</script>`)

// SharedData matches the legacy `window._sharedData = {...};</script>` assignment
var SharedData = Strategy{
	Name: "shared_data",
	Candidates: func(page string) []string {
		m := sharedDataPattern.FindStringSubmatch(page)
		if m == nil {
			return nil
		}
		return []string{m[1]}
	},
}

// LDJSON matches every <script type="application/ld+json"> block holding an object
var LDJSON = Strategy{
	Name:       "ld_json",
	Candidates: ldJSONBlocks,
}

// DefaultStrategies is the priority order used by Locate
var DefaultStrategies = []Strategy{SharedData, LDJSON}

// Locator tries strategies in order and returns the first candidate that
// decodes to a JSON object
type Locator struct {
	strategies []Strategy
	log        logger.Logger
}

// NewLocator creates a locator. A nil or empty strategy list means DefaultStrategies.
func NewLocator(log logger.Logger, strategies ...Strategy) *Locator {
	if len(strategies) == 0 {
		strategies = DefaultStrategies
	}
	return &Locator{
		strategies: strategies,
		log:        logger.OrNop(log),
	}
}

var defaultLocator = NewLocator(nil)

// Locate finds the embedded payload in page with the default strategies
func Locate(page string) (RawPayload, bool) {
	return defaultLocator.Locate(page)
}

// Locate returns the first decodable payload, or false when none is found
func (l *Locator) Locate(page string) (RawPayload, bool) {
	for _, strategy := range l.strategies {
		if strategy.Candidates == nil {
			continue
		}
		for _, candidate := range strategy.Candidates(page) {
			raw, err := decode(candidate)
			if err != nil {
				l.log.WithError(err).DebugWithFields("Embedded block did not decode", map[string]interface{}{
					"strategy": strategy.Name,
				})
				continue
			}
			l.log.DebugWithFields("Embedded payload located", map[string]interface{}{
				"strategy": strategy.Name,
				"keys":     len(raw),
			})
			return raw, true
		}
	}
	return nil, false
}

var errNotObject = errors.New("payload is not a JSON object")

// decode parses text as exactly one JSON object
func decode(text string) (RawPayload, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errNotObject
	}

	var extra interface{}
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, errors.New("trailing data after JSON object")
	}

	return RawPayload(raw), nil
}

func ldJSONBlocks(page string) []string {
	var blocks []string
	z := html.NewTokenizer(strings.NewReader(page))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return blocks
		case html.StartTagToken:
			tok := z.Token()
			if tok.Data != "script" || !isLDJSON(tok.Attr) {
				continue
			}
			if z.Next() != html.TextToken {
				continue
			}
			text := strings.TrimSpace(string(z.Text()))
			if strings.HasPrefix(text, "{") {
				blocks = append(blocks, text)
			}
		}
	}
}

func isLDJSON(attrs []html.Attribute) bool {
	for _, a := range attrs {
		if a.Key == "type" && strings.EqualFold(strings.TrimSpace(a.Val), "application/ld+json") {
			return true
		}
	}
	return false
}
