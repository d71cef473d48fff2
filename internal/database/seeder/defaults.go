package seeder

func Defaults(environment string) []Seeder {
	out := []Seeder{SkillsSeeder{}}
	if environment != "production" {
		out = append(out, DemoSeeder{})
	}
	return out
}
