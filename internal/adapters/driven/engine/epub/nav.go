package epub

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/Zolangui/Lumen-Read/internal/core/domain"
)

// NCX XML structures for parsing toc.ncx.
type ncx struct {
	NavMap   navMap   `xml:"navMap"`
	PageList pageList `xml:"pageList"`
}

type navMap struct {
	NavPoints []navPoint `xml:"navPoint"`
}

type navPoint struct {
	ID       string     `xml:"id,attr"`
	Label    navLabel   `xml:"navLabel"`
	Content  navContent `xml:"content"`
	Children []navPoint `xml:"navPoint"`
}

type navLabel struct {
	Text string `xml:"text"`
}

type navContent struct {
	Src string `xml:"src,attr"`
}

type pageList struct {
	Targets []pageTarget `xml:"pageTarget"`
}

type pageTarget struct {
	Value   string     `xml:"value,attr"`
	Label   navLabel   `xml:"navLabel"`
	Content navContent `xml:"content"`
}

// parseNCXNav converts an NCX document into the outline tree.
func parseNCXNav(data []byte) ([]*domain.NavItem, error) {
	var doc ncx
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return buildNavItems(doc.NavMap.NavPoints, ""), nil
}

// buildNavItems recursively converts nav points, wiring parent links
// and synthesizing IDs for points that carry none.
func buildNavItems(points []navPoint, parentID string) []*domain.NavItem {
	var items []*domain.NavItem
	for i, np := range points {
		item := &domain.NavItem{
			ID:     np.ID,
			Href:   np.Content.Src,
			Label:  strings.TrimSpace(np.Label.Text),
			Parent: parentID,
		}
		if item.ID == "" {
			item.ID = syntheticNavID(parentID, i)
		}
		item.Subitems = buildNavItems(np.Children, item.ID)
		items = append(items, item)
	}
	return items
}

func syntheticNavID(parentID string, index int) string {
	if parentID == "" {
		return fmt.Sprintf("nav-%d", index)
	}
	return fmt.Sprintf("%s-%d", parentID, index)
}

// parseNCXPageList extracts the embedded page markers. Targets with an
// unparseable page number are skipped.
func parseNCXPageList(data []byte) []domain.PageMarker {
	var doc ncx
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil
	}
	var markers []domain.PageMarker
	for _, target := range doc.PageList.Targets {
		value := target.Value
		if value == "" {
			value = strings.TrimSpace(target.Label.Text)
		}
		page, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		markers = append(markers, domain.PageMarker{Page: page, CFI: target.Content.Src})
	}
	return markers
}
