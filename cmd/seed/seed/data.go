package seed

type SeedMember struct {
	FullName      string
	Email         string
	DateOfBirth   string
	Gender        string
	Ward          string
	LGA           string
	State         string
	Address       string
	MaritalStatus string
}

var Members = []SeedMember{
	{
		FullName:      "Amina Bello",
		Email:         "amina.bello@example.com",
		DateOfBirth:   "1998-04-12",
		Gender:        "female",
		Ward:          "Sabon Gari",
		LGA:           "Kano Municipal",
		State:         "Kano",
		Address:       "14 Bompai Road, Kano",
		MaritalStatus: "single",
	},
	{
		FullName:    "Chinedu Okafor",
		Email:       "chinedu.okafor@example.com",
		DateOfBirth: "1995-11-03",
		Gender:      "male",
		Ward:        "Ogbete",
		LGA:         "Enugu North",
		State:       "Enugu",
		Address:     "7 Zik Avenue, Enugu",
	},
	{
		FullName:      "Tunde Adeyemi",
		Email:         "tunde.adeyemi@example.com",
		DateOfBirth:   "2001-01-27",
		Gender:        "male",
		Ward:          "Ikeja I",
		LGA:           "Ikeja",
		State:         "Lagos",
		Address:       "22 Allen Avenue, Ikeja",
		MaritalStatus: "married",
	},
}
