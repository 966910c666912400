package rules

import (
	"fmt"
	"regexp"
	"strings"
)

var checkboxMarks = []string{"XI", "Xl", "[X]", "(X)", "☑", "☒"}

func lineHasMark(line string) bool {
	for _, m := range checkboxMarks {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// extractCheckbox locates r.AnchorLabel, then within a vertical window
// (default 5 lines) searches each option keyword for a preceding
// checked-box mark on the same visual line. Falls back to any option
// keyword co-occurring with any mark on its own line.
func extractCheckbox(r Rule, ctx *context) (interface{}, error) {
	lines := strings.Split(ctx.Text, "\n")
	anchorIdx := -1
	for i, line := range lines {
		if strings.Contains(strings.ToLower(line), strings.ToLower(r.AnchorLabel)) {
			anchorIdx = i
			break
		}
	}
	if anchorIdx == -1 {
		return nil, fmt.Errorf("anchor label %q not found", r.AnchorLabel)
	}

	window := r.WindowLines
	if window == 0 {
		window = 5
	}
	end := anchorIdx + window
	if end > len(lines) {
		end = len(lines)
	}

	for i := anchorIdx; i < end; i++ {
		line := lines[i]
		for keyword, value := range r.Options {
			kwIdx := strings.Index(strings.ToLower(line), strings.ToLower(keyword))
			if kwIdx == -1 {
				continue
			}
			preceding := line[:kwIdx]
			if lineHasMark(preceding) {
				return value, nil
			}
		}
	}

	// Fallback: option keyword co-occurs with any mark on the same line.
	for i := anchorIdx; i < end; i++ {
		line := lines[i]
		if !lineHasMark(line) {
			continue
		}
		for keyword, value := range r.Options {
			if strings.Contains(strings.ToLower(line), strings.ToLower(keyword)) {
				return value, nil
			}
		}
	}

	return nil, fmt.Errorf("no checked option found near anchor %q", r.AnchorLabel)
}

// extractPositional locates r.AnchorKeyword and captures by direction:
// after/right takes the rest of the same line; below scans up to 10
// non-blank lines after r.SkipLines (default 0, meaning the first
// non-blank line after the anchor line itself).
func extractPositional(r Rule, ctx *context) (interface{}, error) {
	lines := strings.Split(ctx.Text, "\n")
	anchorLine, anchorCol := -1, -1
	lowerKeyword := strings.ToLower(r.AnchorKeyword)
	for i, line := range lines {
		if idx := strings.Index(strings.ToLower(line), lowerKeyword); idx != -1 {
			anchorLine, anchorCol = i, idx
			break
		}
	}
	if anchorLine == -1 {
		return nil, fmt.Errorf("anchor keyword %q not found", r.AnchorKeyword)
	}

	var captured string
	switch r.Direction {
	case DirectionAfter, DirectionRight, "":
		rest := lines[anchorLine][anchorCol+len(r.AnchorKeyword):]
		captured = strings.TrimSpace(rest)
	case DirectionBelow:
		skipped := 0
		scanned := 0
		for i := anchorLine + 1; i < len(lines) && scanned < 10; i++ {
			v := strings.TrimSpace(lines[i])
			if v == "" {
				continue
			}
			if skipped < r.SkipLines {
				skipped++
				continue
			}
			captured = v
			scanned++
			break
		}
	default:
		return nil, fmt.Errorf("unknown positional direction %q", r.Direction)
	}

	if r.CaptureRegex != "" {
		re, err := regexp.Compile(r.CaptureRegex)
		if err != nil {
			return nil, fmt.Errorf("invalid capture_regex: %w", err)
		}
		m := re.FindStringSubmatch(captured)
		if m == nil {
			return nil, fmt.Errorf("capture_regex did not match %q", captured)
		}
		if len(m) > 1 {
			captured = m[1]
		} else {
			captured = m[0]
		}
	}

	if captured == "" {
		return nil, fmt.Errorf("positional capture empty for anchor %q", r.AnchorKeyword)
	}
	if r.Transform != "" {
		return applyTransform(r.Transform, captured), nil
	}
	return captured, nil
}

// extractSection captures everything between r.StartMarker and an
// optional r.EndMarker, optionally filtered through r.CaptureRegex.
func extractSection(r Rule, ctx *context) (interface{}, error) {
	text := ctx.Text
	startIdx := strings.Index(text, r.StartMarker)
	if startIdx == -1 {
		return nil, fmt.Errorf("start_marker %q not found", r.StartMarker)
	}
	section := text[startIdx+len(r.StartMarker):]
	if r.EndMarker != "" {
		if endIdx := strings.Index(section, r.EndMarker); endIdx != -1 {
			section = section[:endIdx]
		}
	}
	section = strings.TrimSpace(section)

	if r.CaptureRegex != "" {
		re, err := regexp.Compile(r.CaptureRegex)
		if err != nil {
			return nil, fmt.Errorf("invalid capture_regex: %w", err)
		}
		m := re.FindStringSubmatch(section)
		if m == nil {
			return nil, fmt.Errorf("capture_regex did not match section")
		}
		if len(m) > 1 {
			return m[1], nil
		}
		return m[0], nil
	}
	return section, nil
}

// compileRegexFlags turns r.Flags (a string of single-letter flags,
// e.g. "i" for case-insensitive, "m" for multiline) into a Go regexp
// inline flag group.
func compileRegexFlags(pattern, flags string) (*regexp.Regexp, error) {
	if flags == "" {
		return regexp.Compile(pattern)
	}
	return regexp.Compile("(?" + flags + ")" + pattern)
}

// extractRegex runs r.Pattern against ctx.Text. A single capture group
// emits (optionally transformed) as a scalar; multiple named
// destinations (r.Groups/r.GroupsKeys) fan distinct capture groups out
// as a map keyed by group name, resolved by the engine's route().
func extractRegex(r Rule, ctx *context) (interface{}, error) {
	re, err := compileRegexFlags(r.Pattern, r.Flags)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	m := re.FindStringSubmatch(ctx.Text)
	if m == nil {
		return nil, fmt.Errorf("regex did not match")
	}

	if len(r.Groups) > 0 || len(r.GroupsKeys) > 0 {
		names := re.SubexpNames()
		out := map[string]interface{}{}
		for i, name := range names {
			if i == 0 || name == "" || i >= len(m) {
				continue
			}
			out[name] = m[i]
		}
		return out, nil
	}

	var captured string
	if len(m) > 1 {
		captured = m[1]
	} else {
		captured = m[0]
	}
	if r.Transform != "" {
		return applyTransform(r.Transform, captured), nil
	}
	return captured, nil
}

// extractStatic injects a constant value, ignoring ctx.Text entirely.
func extractStatic(r Rule, ctx *context) (interface{}, error) {
	return r.Value, nil
}

// extractComputed copies a value from an earlier-extracted path (nested
// mode) or flat key (flat mode) in the same document's partial output.
func extractComputed(r Rule, ctx *context) (interface{}, error) {
	if r.SourceKey != "" {
		if v, ok := ctx.Output.Flat[r.SourceKey]; ok {
			return v, nil
		}
		return nil, fmt.Errorf("source_key %q not yet populated", r.SourceKey)
	}
	if r.SourcePath != "" {
		if v, ok := getNestedPath(ctx.Output.Nested, r.SourcePath); ok {
			return v, nil
		}
		return nil, fmt.Errorf("source_path %q not yet populated", r.SourcePath)
	}
	return nil, fmt.Errorf("computed rule %s has neither source_key nor source_path", r.ID)
}

// getNestedPath reads a dotted path with optional "[i]" indices back
// out of an already-assembled nested map.
func getNestedPath(root map[string]interface{}, path string) (interface{}, bool) {
	segments := splitPath(path)
	var cur interface{} = root
	for _, seg := range segments {
		name, idx, indexed := parseSegment(seg)
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		val, ok := m[name]
		if !ok {
			return nil, false
		}
		if !indexed {
			cur = val
			continue
		}
		list, ok := val.([]interface{})
		if !ok || idx >= len(list) {
			return nil, false
		}
		cur = list[idx]
	}
	return cur, true
}
