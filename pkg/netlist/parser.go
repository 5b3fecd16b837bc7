package netlist

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type AnalysisType int

const (
	AnalysisOP AnalysisType = iota
	AnalysisDC
)

func (a AnalysisType) String() string {
	switch a {
	case AnalysisOP:
		return "op"
	case AnalysisDC:
		return "dc"
	default:
		return fmt.Sprintf("analysis(%d)", int(a))
	}
}

type NetlistData struct {
	Elements []Element   // Circuit elements
	Analysis AnalysisType // Analysis type
	DCParam  struct {
		Source1    string
		Start1     float64
		Stop1      float64
		Increment1 float64
		Source2    string
		Start2     float64
		Stop2      float64
		Increment2 float64
	}
	Title string // Circuit title
}

type Element struct {
	Type   string            // Part type (R, V, I, G, F, H)
	Name   string            // Part name
	Nodes  []string          // Node names
	Value  float64           // Part value
	Params map[string]string // Parameter values, "control" names the sensed source of F and H
}

var unitMap = map[string]float64{
	"T":   1e12,  // tera
	"G":   1e9,   // giga
	"meg": 1e6,   // mega
	"MEG": 1e6,   // mega
	"K":   1e3,   // kilo
	"k":   1e3,   // kilo
	"M":   1e-3,  // milli, as in SPICE
	"m":   1e-3,  // milli
	"u":   1e-6,  // micro
	"n":   1e-9,  // nano
	"p":   1e-12, // pico
	"f":   1e-15, // femto
}

var (
	spaceRe = regexp.MustCompile(`\s+`)
	valueRe = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|MEG|[TGMKkmunpf])?(?:s|V|A|ohm|Ohm)?$`)
)

// Parse reads a SPICE style netlist. The first line is the title.
// Parsing stops at .end.
func Parse(input string) (*NetlistData, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	netlistData := &NetlistData{}

	// Title or comment
	if scanner.Scan() {
		netlistData.Title = strings.TrimPrefix(scanner.Text(), "*")
		netlistData.Title = strings.TrimSpace(netlistData.Title)
	}

	var currentLine string
	lineNum := 1
	startLine := 0

	flush := func() error {
		if currentLine == "" {
			return nil
		}
		err := parseLine(netlistData, currentLine)
		currentLine = ""
		if err != nil {
			return fmt.Errorf("line %d: %w", startLine, err)
		}
		return nil
	}

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Inline comment, whole line comment included
		if idx := strings.IndexAny(line, "*;"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if len(line) == 0 {
			continue
		}

		if strings.HasPrefix(line, "+") {
			if currentLine == "" {
				return nil, fmt.Errorf("line %d: continuation without a preceding line", lineNum)
			}
			currentLine += " " + strings.TrimSpace(strings.TrimPrefix(line, "+"))
			continue
		}

		if err := flush(); err != nil {
			return nil, err
		}

		if strings.EqualFold(strings.Fields(line)[0], ".end") {
			return netlistData, nil
		}
		currentLine = line
		startLine = lineNum
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading netlist: %w", err)
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return netlistData, nil
}

func parseLine(netlistData *NetlistData, line string) error {
	line = spaceRe.ReplaceAllString(line, " ")

	if strings.HasPrefix(line, ".") {
		return parseDotOperator(netlistData, line)
	}

	element, err := parseElement(line)
	if err != nil {
		return err
	}
	netlistData.Elements = append(netlistData.Elements, *element)
	return nil
}

// Parse .op, .dc
func parseDotOperator(netlistData *NetlistData, line string) error {
	var err error

	fields := strings.Fields(line)

	switch strings.ToLower(fields[0]) {
	case ".op":
		netlistData.Analysis = AnalysisOP

	case ".dc":
		netlistData.Analysis = AnalysisDC
		if len(fields) != 5 && len(fields) != 9 {
			return fmt.Errorf("insufficient DC sweep parameters, need src start stop incr [src2 start2 stop2 incr2]")
		}

		p := &netlistData.DCParam
		p.Source1 = fields[1]
		if p.Start1, p.Stop1, p.Increment1, err = parseSweep(fields[2:5]); err != nil {
			return fmt.Errorf("sweep %s: %w", p.Source1, err)
		}

		if len(fields) == 9 {
			p.Source2 = fields[5]
			if p.Start2, p.Stop2, p.Increment2, err = parseSweep(fields[6:9]); err != nil {
				return fmt.Errorf("sweep %s: %w", p.Source2, err)
			}
		}

	default:
		return fmt.Errorf("unsupported analysis type: %s", fields[0])
	}

	return nil
}

func parseSweep(fields []string) (start, stop, incr float64, err error) {
	start, err = ParseValue(fields[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid start value: %w", err)
	}
	stop, err = ParseValue(fields[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid stop value: %w", err)
	}
	incr, err = ParseValue(fields[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid increment value: %w", err)
	}
	if incr <= 0 {
		return 0, 0, 0, fmt.Errorf("increment must be positive, got %g", incr)
	}
	return start, stop, incr, nil
}

// Parse circuit element
func parseElement(line string) (*Element, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return nil, fmt.Errorf("invalid element format: %s", line)
	}

	elem := &Element{
		Name:   fields[0],
		Type:   strings.ToUpper(string(fields[0][0])),
		Params: make(map[string]string),
	}

	switch elem.Type {
	case "V", "I":
		return parseSource(elem, fields)

	case "R":
		return parseFixed(elem, fields, 2)

	case "G":
		return parseFixed(elem, fields, 4)

	case "F", "H":
		if len(fields) != 5 {
			return nil, fmt.Errorf("%s: need n+ n- controlling-source value", elem.Name)
		}
		elem.Nodes = fields[1:3]
		elem.Params["control"] = fields[3]
		value, err := ParseValue(fields[4])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", elem.Name, err)
		}
		elem.Value = value
		return elem, nil

	default:
		return nil, fmt.Errorf("unsupported element type %s: %s", elem.Type, elem.Name)
	}
}

func parseFixed(elem *Element, fields []string, numNodes int) (*Element, error) {
	if len(fields) != numNodes+2 {
		return nil, fmt.Errorf("%s: need %d nodes and a value", elem.Name, numNodes)
	}
	elem.Nodes = fields[1 : numNodes+1]
	value, err := ParseValue(fields[numNodes+1])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", elem.Name, err)
	}
	elem.Value = value
	return elem, nil
}

// V and I accept an optional DC keyword before the value.
func parseSource(elem *Element, fields []string) (*Element, error) {
	elem.Nodes = []string{fields[1], fields[2]}

	words := fields[3:]
	if strings.EqualFold(words[0], "DC") {
		words = words[1:]
	}
	if len(words) != 1 {
		return nil, fmt.Errorf("%s: missing or extra DC value", elem.Name)
	}

	elem.Params["type"] = "dc"
	value, err := ParseValue(words[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", elem.Name, err)
	}
	elem.Value = value
	return elem, nil
}

// ParseValue - Parse value and factor. 1k -> 1000
func ParseValue(val string) (float64, error) {
	matches := valueRe.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %s", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	// factor
	if matches[2] != "" {
		num *= unitMap[matches[2]]
	}

	return num, nil
}
