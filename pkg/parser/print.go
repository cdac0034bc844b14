package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders the tree as indented text, one node per line.
//
//	and
//	  tagMatch
//	    string "natural"
//	    string "tree"
//	  typeMatch node
func Print(n Node) string {
	var sb strings.Builder
	printNode(&sb, n, 0)
	return sb.String()
}

func printNode(sb *strings.Builder, n Node, level int) {
	sb.WriteString(strings.Repeat("  ", level))
	sb.WriteString(label(n))
	sb.WriteByte('\n')
	for _, c := range Children(n) {
		printNode(sb, c, level+1)
	}
}

func label(n Node) string {
	switch n := n.(type) {
	case *ParenExpr:
		return "paren"
	case *NotExpr:
		return "not"
	case *BinaryExpr:
		return strings.ToLower(n.Op.String())
	case *StringLit:
		return "string " + strconv.Quote(n.Value)
	case *TagMatch:
		return "tagMatch"
	case *TagNotMatch:
		return "tagNotMatch"
	case *TagWildcardMatch:
		return "tagWildcardMatch"
	case *TagNotWildcardMatch:
		return "tagNotWildcardMatch"
	case *TagListMatch:
		return "tagListMatch"
	case *TagValuePatternMatch:
		return fmt.Sprintf("tagValuePatternMatch leading=%t trailing=%t", n.Leading, n.Trailing)
	case *HashtagMatch:
		return "hashtagMatch"
	case *HashtagWildcardMatch:
		return "hashtagWildcardMatch"
	case *HashtagListMatch:
		return "hashtagListMatch"
	case *TypeMatch:
		return "typeMatch " + n.Type
	case *IDMatch:
		return "idMatch " + strconv.FormatInt(n.ID, 10)
	case *TypeIDMatch:
		return "typeIdMatch " + n.TypeID.String()
	case *IDRangeMatch:
		return "idRangeMatch " + n.Range.String()
	case *IDListMatch:
		return "idListMatch " + joinInts(n.IDs)
	case *TypeIDListMatch:
		parts := make([]string, len(n.TypeIDs))
		for i, t := range n.TypeIDs {
			parts[i] = t.String()
		}
		return "typeIdListMatch " + strings.Join(parts, ", ")
	case *GeometryMatch:
		return "geometryMatch " + n.Kind
	case *AreaRangeMatch:
		return "areaRangeMatch " + n.Range.String()
	case *PerimeterRangeMatch:
		return "perimeterRangeMatch " + n.Range.String()
	case *LengthRangeMatch:
		return "lengthRangeMatch " + n.Range.String()
	case *GeometryVerticesRangeMatch:
		return "geometryVerticesRangeMatch " + n.Range.String()
	case *GeometryOutersMatch:
		return "geometryOutersMatch " + strconv.FormatInt(n.Count, 10)
	case *GeometryOutersRangeMatch:
		return "geometryOutersRangeMatch " + n.Range.String()
	case *GeometryInnersMatch:
		return "geometryInnersMatch " + strconv.FormatInt(n.Count, 10)
	case *GeometryInnersRangeMatch:
		return "geometryInnersRangeMatch " + n.Range.String()
	case *ChangesetMatch:
		return "changesetMatch " + strconv.FormatInt(n.ID, 10)
	case *ChangesetListMatch:
		return "changesetListMatch " + joinInts(n.IDs)
	case *ChangesetRangeMatch:
		return "changesetRangeMatch " + n.Range.String()
	case *ChangesetCreatedByMatch:
		return "changesetCreatedByMatch"
	}
	return fmt.Sprintf("%T", n)
}

func (t TypeID) String() string {
	return t.Type + "/" + strconv.FormatInt(t.ID, 10)
}

// String renders the range in filter syntax, e.g. (1..) or (..9.5).
func (r Range[T]) String() string {
	return "(" + formatBound(r.Lower) + ".." + formatBound(r.Upper) + ")"
}

func formatBound[T int64 | float64](b *T) string {
	if b == nil {
		return ""
	}
	switch v := any(*b).(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return ""
}

func joinInts(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
