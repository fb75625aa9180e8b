package domain

// TeamMember is a person listed on the about page.
type TeamMember struct {
	Slug      string `json:"slug" yaml:"slug"`
	Name      string `json:"name" yaml:"name"`
	Role      string `json:"role" yaml:"role"`
	Avatar    string `json:"avatar" yaml:"avatar"`
	Bio       string `json:"bio" yaml:"bio"`
	BioLong   string `json:"bioLong" yaml:"bio_long"`
	LinkedIn  string `json:"linkedin,omitempty" yaml:"linkedin"`
	Instagram string `json:"instagram,omitempty" yaml:"instagram"`
}

// SocialLink is a rendered profile link.
type SocialLink struct {
	Network string `json:"network"`
	URL     string `json:"url"`
}

// Links returns the member's social links in display order, skipping empty ones.
func (m TeamMember) Links() []SocialLink {
	var links []SocialLink
	if m.LinkedIn != "" {
		links = append(links, SocialLink{Network: "linkedin", URL: m.LinkedIn})
	}
	if m.Instagram != "" {
		links = append(links, SocialLink{Network: "instagram", URL: m.Instagram})
	}
	return links
}
