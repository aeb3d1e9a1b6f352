package netlist

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/edp1096/circuit-solver/pkg/device"
)

type AnalysisType int

const (
	AnalysisOP AnalysisType = iota
	AnalysisAC
	AnalysisDC
	AnalysisSENS
)

type NetlistData struct {
	Elements []Element       // Circuit elements
	Branches []BranchLine    // Branches in file order
	Nodes    map[string]int  // Node name and first-seen order
	Analysis AnalysisType    // Analysis type
	ACParam  struct {
		Sweep  string  // DEC, OCT, LIN
		FStart float64 // start frequency
		Points int     // number of points
		FStop  float64 // stop frequency
	}
	DCParam struct {
		Source1    string
		Start1     float64
		Stop1      float64
		Increment1 float64
		Source2    string
		Start2     float64
		Stop2      float64
		Increment2 float64
	}
	SensParam struct {
		Component string
		Freq      float64
	}
	Reference string // Reference node, from .ref
	Title     string // Circuit title
}

type Element struct {
	Type   string            // R, C, L, Z, V, I, A
	Name   string            // Part name
	Nodes  []string          // Node names, empty for a declaration used by .branch
	Value  complex128        // Part value in SI units
	Params map[string]string // Parameter values
}

// BranchLine is a series chain of named parts. A leading "~" reverses a
// part.
type BranchLine struct {
	NodeA, NodeB string
	Parts        []string
}

var unitMap = map[string]float64{
	"T":   1e12,  // tera
	"G":   1e9,   // giga
	"meg": 1e6,   // mega
	"K":   1e3,   // kilo
	"k":   1e3,   // kilo
	"m":   1e-3,  // milli
	"u":   1e-6,  // micro
	"n":   1e-9,  // nano
	"p":   1e-12, // pico
	"f":   1e-15, // femto
}

var (
	valueRe = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|[TGMKkmunpf])?s?$`)
	spaceRe = regexp.MustCompile(`\s+`)
)

func Parse(input string) (*NetlistData, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	netlistData := &NetlistData{
		Nodes: make(map[string]int),
	}

	if scanner.Scan() {
		netlistData.Title = strings.TrimPrefix(scanner.Text(), "*")
		netlistData.Title = strings.TrimSpace(netlistData.Title)
	}

	var currentLine string
	lineNum := 1
	startLine := 1
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

		// Comment - whole line or trailing
		if idx := strings.Index(line, "*"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if len(line) == 0 {
			continue
		}

		if strings.HasPrefix(line, "+") { // Line continue
			if currentLine == "" {
				return nil, fmt.Errorf("line %d: continuation without a line to continue", lineNum)
			}
			currentLine += " " + strings.TrimSpace(line[1:])
			continue
		}

		if err := flush(); err != nil {
			return nil, err
		}
		currentLine = line
		startLine = lineNum
	}
	if err := scanner.Err(); err != nil {
		return nil, err
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
	if len(element.Nodes) == 2 {
		netlistData.addBranch(element.Nodes[0], element.Nodes[1], []string{element.Name})
	}
	return nil
}

func (n *NetlistData) addBranch(a, b string, parts []string) {
	for _, node := range []string{a, b} {
		if _, exists := n.Nodes[node]; !exists {
			n.Nodes[node] = len(n.Nodes)
		}
	}
	n.Branches = append(n.Branches, BranchLine{NodeA: a, NodeB: b, Parts: parts})
}

func parseDotOperator(netlistData *NetlistData, line string) error {
	var err error

	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ".op":
		netlistData.Analysis = AnalysisOP

	case ".end":

	case ".ref":
		if len(fields) != 2 {
			return fmt.Errorf(".ref needs exactly one node")
		}
		netlistData.Reference = fields[1]

	case ".branch":
		if len(fields) < 4 {
			return fmt.Errorf(".branch needs two nodes and at least one part")
		}
		netlistData.addBranch(fields[1], fields[2], fields[3:])

	case ".ac":
		netlistData.Analysis = AnalysisAC
		if len(fields) < 5 {
			return fmt.Errorf("insufficient AC parameters, need sweep type, points, fstart, and fstop")
		}

		netlistData.ACParam.Sweep = strings.ToUpper(fields[1])
		if netlistData.ACParam.Sweep != "DEC" && netlistData.ACParam.Sweep != "OCT" && netlistData.ACParam.Sweep != "LIN" {
			return fmt.Errorf("invalid sweep type: %s", netlistData.ACParam.Sweep)
		}

		netlistData.ACParam.Points, err = strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("invalid points number: %w", err)
		}
		netlistData.ACParam.FStart, err = ParseValue(fields[3])
		if err != nil {
			return fmt.Errorf("invalid fstart: %w", err)
		}
		netlistData.ACParam.FStop, err = ParseValue(fields[4])
		if err != nil {
			return fmt.Errorf("invalid fstop: %w", err)
		}

	case ".dc":
		netlistData.Analysis = AnalysisDC
		if len(fields) != 5 && len(fields) != 9 {
			return fmt.Errorf("dc needs source, start, stop and increment for one or two sources")
		}
		p := &netlistData.DCParam
		p.Source1 = fields[1]
		if p.Start1, p.Stop1, p.Increment1, err = parseSweep(fields[2:5]); err != nil {
			return err
		}
		if len(fields) == 9 {
			p.Source2 = fields[5]
			if p.Start2, p.Stop2, p.Increment2, err = parseSweep(fields[6:9]); err != nil {
				return err
			}
		}

	case ".sens":
		netlistData.Analysis = AnalysisSENS
		if len(fields) < 2 || len(fields) > 3 {
			return fmt.Errorf(".sens needs a component and an optional frequency")
		}
		netlistData.SensParam.Component = fields[1]
		if len(fields) == 3 {
			netlistData.SensParam.Freq, err = ParseValue(fields[2])
			if err != nil {
				return fmt.Errorf("invalid frequency: %w", err)
			}
		}

	default:
		return fmt.Errorf("unsupported command %s", fields[0])
	}

	return nil
}

func parseSweep(fields []string) (start, stop, inc float64, err error) {
	if start, err = ParseValue(fields[0]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid start: %w", err)
	}
	if stop, err = ParseValue(fields[1]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid stop: %w", err)
	}
	if inc, err = ParseValue(fields[2]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid increment: %w", err)
	}
	return start, stop, inc, nil
}

// Parse circuit element
//
//	NAME VALUE          declaration, wired by .branch
//	NAME N+ N- VALUE    one-part branch between N+ and N-
//
// Sources also take "DC value" or "AC magnitude [phase]" as value. An
// ammeter (A) has no value.
func parseElement(line string) (*Element, error) {
	fields := strings.Fields(line)

	elem := &Element{
		Name:   fields[0],
		Type:   strings.ToUpper(string(fields[0][0])),
		Params: make(map[string]string),
	}
	switch elem.Type {
	case "E":
		elem.Type = "V"
	case "J":
		elem.Type = "I"
	}

	var words []string
	switch {
	case elem.Type == "A":
		switch len(fields) {
		case 1:
		case 3:
			elem.Nodes = fields[1:3]
		default:
			return nil, fmt.Errorf("invalid ammeter format: %s", line)
		}
		return elem, nil

	case len(fields) == 2 || (isSource(elem.Type) && isSourceKeyword(fields[1])):
		words = fields[1:]

	case len(fields) >= 4:
		elem.Nodes = fields[1:3]
		words = fields[3:]

	default:
		return nil, fmt.Errorf("invalid element format: %s", line)
	}

	var err error
	switch elem.Type {
	case "R", "C", "L":
		if len(words) != 1 {
			return nil, fmt.Errorf("%s takes a single value", elem.Name)
		}
		var v float64
		v, err = ParseValue(words[0])
		elem.Value = complex(v, 0)

	case "Z":
		if len(words) != 1 {
			return nil, fmt.Errorf("%s takes a single value", elem.Name)
		}
		elem.Value, err = ParseComplexValue(words[0])

	case "V", "I":
		elem.Value, err = parseSourceValue(elem, words)

	default:
		return nil, fmt.Errorf("unsupported element type %s (%s)", elem.Type, elem.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", elem.Name, err)
	}

	return elem, nil
}

func isSource(t string) bool {
	return t == "V" || t == "I"
}

func isSourceKeyword(word string) bool {
	w := strings.ToUpper(word)
	return w == "DC" || w == "AC"
}

func parseSourceValue(elem *Element, words []string) (complex128, error) {
	switch strings.ToUpper(words[0]) {
	case "DC":
		if len(words) != 2 {
			return 0, fmt.Errorf("missing DC value")
		}
		elem.Params["type"] = "dc"
		v, err := ParseValue(words[1])
		return complex(v, 0), err

	case "AC":
		if len(words) < 2 || len(words) > 3 {
			return 0, fmt.Errorf("missing AC magnitude")
		}
		elem.Params["type"] = "ac"
		magnitude, err := ParseValue(words[1])
		if err != nil {
			return 0, fmt.Errorf("invalid AC magnitude: %w", err)
		}

		elem.Params["phase"] = "0" // Default
		if len(words) == 3 {
			elem.Params["phase"] = words[2]
		}
		phase, err := ParseValue(elem.Params["phase"])
		if err != nil {
			return 0, fmt.Errorf("invalid AC phase: %w", err)
		}
		return device.Phasor(magnitude, phase), nil
	}

	if len(words) != 1 {
		return 0, fmt.Errorf("unexpected source parameters %v", words)
	}
	return ParseComplexValue(words[0])
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
		if multiplier, ok := unitMap[matches[2]]; ok {
			num *= multiplier
		}
	}

	return num, nil
}

// ParseComplexValue accepts everything ParseValue does plus complex
// literals with a j or i unit, e.g. 5-4j, 2j, (3+4j).
func ParseComplexValue(val string) (complex128, error) {
	if v, err := ParseValue(val); err == nil {
		return complex(v, 0), nil
	}

	s := strings.TrimSpace(val)
	s = strings.ReplaceAll(s, "j", "i")
	c, err := strconv.ParseComplex(s, 128)
	if err != nil {
		return 0, fmt.Errorf("invalid value format: %s", val)
	}
	return c, nil
}

// CreateComponent builds the component an element declares.
func CreateComponent(elem Element) (*device.Component, error) {
	switch elem.Type {
	case "R":
		return device.NewResistor(elem.Name, real(elem.Value)), nil
	case "C":
		return device.NewCapacitor(elem.Name, real(elem.Value)), nil
	case "L":
		return device.NewInductor(elem.Name, real(elem.Value)), nil
	case "Z":
		return device.NewImpedance(elem.Name, elem.Value), nil
	case "V":
		return device.NewVoltageSource(elem.Name, elem.Value), nil
	case "I":
		return device.NewCurrentSource(elem.Name, elem.Value), nil
	case "A":
		return device.NewAmmeter(elem.Name), nil
	}
	return nil, fmt.Errorf("unsupported element type: %s", elem.Type)
}
