package nft

type MetadataGetter interface {
	GetName() string
	GetDescription() string
	GetImageURI() string
	GetURI() string
}

// Metadata is the ERC-721 metadata JSON schema a tokenURI points at.
type Metadata struct {
	URI         string      `json:"-"`
	Name        string      `json:"name,omitempty"`
	Description string      `json:"description,omitempty"`
	Image       string      `json:"image,omitempty"`
	ExternalURL string      `json:"external_url,omitempty"`
	Attributes  []Attribute `json:"attributes,omitempty"`
}

type Attribute struct {
	TraitType string `json:"trait_type,omitempty"`
	Value     any    `json:"value"`
}

func (m Metadata) GetName() string {
	return m.Name
}

func (m Metadata) GetDescription() string {
	return m.Description
}

func (m Metadata) GetImageURI() string {
	return m.Image
}

func (m Metadata) GetURI() string {
	return m.URI
}
