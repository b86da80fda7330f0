package models

type SkillCategory struct {
	Name     string `gorm:"size:100;primary_key" json:"name"`
	Position int    `gorm:"not null;default:0" json:"-"`
}

var DefaultSkillCategories = []string{
	"Programming",
	"Design",
	"Art & Music",
	"Language Learning",
	"Cooking & Baking",
	"Public Speaking",
	"Photography & Videography",
	"Health & Fitness",
	"Writing & Blogging",
	"Personal Development",
}
