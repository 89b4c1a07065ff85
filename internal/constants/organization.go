package constants

// Static card and email copy. Changing any of it changes every rendered card.
const (
	OrganizationName     = "Africa Democratic Youth Congress"
	OrganizationInitials = "ADYC"
	OrganizationSlogan   = "Youth Voice, National Choice"
	OrganizationPhone    = "+234 800 000 2392"
	OrganizationEmail    = "info@adyc.org"

	MemberIDPrefix     = "ADYC"
	SerialNumberPrefix = "SN"
)

var CardTerms = []string{
	"This card remains the property of the " + OrganizationName + ".",
	"Misuse, alteration or transfer of this card is strictly prohibited.",
	"Report loss or theft of this card to the secretariat immediately.",
	"This card grants access to official " + OrganizationInitials + " events and programmes.",
	"Valid only for members in good standing.",
}

var SocialHandles = []string{
	"@adyc_official",
	"facebook.com/adycofficial",
}

// RGB triples.
var (
	BrandGreen  = [3]int{0, 122, 61}
	BrandGold   = [3]int{242, 169, 0}
	CardSurface = [3]int{247, 250, 248}
	TextDark    = [3]int{33, 37, 41}
	TextMuted   = [3]int{108, 117, 125}
)
