package plex

// SectionType discriminates Plex library section types.
type SectionType string

const (
	SectionMovie SectionType = "movie"
	SectionShow  SectionType = "show"
)

// Supported reports whether this tool processes sections of the given type.
func (t SectionType) Supported() bool {
	return t == SectionMovie || t == SectionShow
}

// Section is one Plex library section.
type Section struct {
	Key       string
	Title     string
	Type      SectionType
	Locations []string
}

// Item is one movie or show-level container in a section.
type Item struct {
	RatingKey string
	Title     string
	Type      SectionType
	// HasClearLogo is true when the server already reports clearLogo
	// artwork for the item.
	HasClearLogo bool
	// MediaFiles holds the remote paths of the item's media parts
	// (movies).
	MediaFiles []string
	// Locations holds the remote folder paths of the item (shows).
	Locations []string
}

// ServerIdentity describes the connected server.
type ServerIdentity struct {
	FriendlyName string
	Version      string
}

// imageTypeClearLogo is the artwork discriminator Plex uses for clear logos.
const imageTypeClearLogo = "clearLogo"

// XML containers, per the shapes the server returns.

type identityContainer struct {
	FriendlyName string `xml:"friendlyName,attr"`
	Version      string `xml:"version,attr"`
}

type sectionsContainer struct {
	Directories []sectionDirectory `xml:"Directory"`
}

type sectionDirectory struct {
	Key       string            `xml:"key,attr"`
	Title     string            `xml:"title,attr"`
	Type      string            `xml:"type,attr"`
	Locations []sectionLocation `xml:"Location"`
}

type sectionLocation struct {
	Path string `xml:"path,attr"`
}

type itemsContainer struct {
	Videos      []itemMetadata `xml:"Video"`
	Directories []itemMetadata `xml:"Directory"`
}

type itemMetadata struct {
	RatingKey string `xml:"ratingKey,attr"`
	Title     string `xml:"title,attr"`
	Type      string `xml:"type,attr"`
	Media     []struct {
		Parts []struct {
			File string `xml:"file,attr"`
		} `xml:"Part"`
	} `xml:"Media"`
	Locations []sectionLocation `xml:"Location"`
	Images    []struct {
		Type string `xml:"type,attr"`
	} `xml:"Image"`
}

func (m itemMetadata) toItem() Item {
	item := Item{
		RatingKey: m.RatingKey,
		Title:     m.Title,
		Type:      SectionType(m.Type),
	}
	for _, media := range m.Media {
		for _, part := range media.Parts {
			if part.File != "" {
				item.MediaFiles = append(item.MediaFiles, part.File)
			}
		}
	}
	for _, loc := range m.Locations {
		if loc.Path != "" {
			item.Locations = append(item.Locations, loc.Path)
		}
	}
	for _, image := range m.Images {
		if image.Type == imageTypeClearLogo {
			item.HasClearLogo = true
			break
		}
	}
	return item
}
