package seed

import (
	"github.com/octofit/octofit/internal/team"
	"github.com/octofit/octofit/internal/workout"
)

type hero struct {
	name  string
	email string
	team  string
}

var teams = []team.CreateTeamInput{
	{Name: "Team Marvel", Description: "Earth's Mightiest Heroes unite for fitness!"},
	{Name: "Team DC", Description: "Justice League members training for peak performance!"},
}

var heroes = []hero{
	{"Iron Man", "tony.stark@avengers.com", "Team Marvel"},
	{"Captain America", "steve.rogers@avengers.com", "Team Marvel"},
	{"Thor", "thor.odinson@asgard.com", "Team Marvel"},
	{"Black Widow", "natasha.romanoff@shield.com", "Team Marvel"},
	{"Hulk", "bruce.banner@avengers.com", "Team Marvel"},
	{"Spider-Man", "peter.parker@marvel.com", "Team Marvel"},
	{"Superman", "clark.kent@dailyplanet.com", "Team DC"},
	{"Batman", "bruce.wayne@wayneenterprises.com", "Team DC"},
	{"Wonder Woman", "diana.prince@themyscira.com", "Team DC"},
	{"Flash", "barry.allen@starlabs.com", "Team DC"},
	{"Aquaman", "arthur.curry@atlantis.com", "Team DC"},
	{"Green Lantern", "hal.jordan@oa.com", "Team DC"},
}

var workouts = []workout.CreateWorkoutInput{
	{Name: "Super Soldier Sprint", Description: "High-intensity sprint training worthy of Captain America", Category: "Cardio", Difficulty: "Hard", Duration: 30, CaloriesPerSession: 400, PointsPerSession: 50},
	{Name: "Hulk Smash Strength", Description: "Heavy lifting and power training", Category: "Strength", Difficulty: "Hard", Duration: 45, CaloriesPerSession: 350, PointsPerSession: 60},
	{Name: "Spider-Man Flexibility Flow", Description: "Web-slinging inspired flexibility and balance", Category: "Flexibility", Difficulty: "Medium", Duration: 25, CaloriesPerSession: 200, PointsPerSession: 30},
	{Name: "Batman Ninja Training", Description: "Martial arts and agility drills", Category: "Agility", Difficulty: "Hard", Duration: 40, CaloriesPerSession: 450, PointsPerSession: 55},
	{Name: "Flash Speed Training", Description: "Lightning-fast cardio intervals", Category: "Cardio", Difficulty: "Hard", Duration: 20, CaloriesPerSession: 500, PointsPerSession: 65},
	{Name: "Wonder Woman Warrior Workout", Description: "Full-body combat training", Category: "Full Body", Difficulty: "Medium", Duration: 35, CaloriesPerSession: 380, PointsPerSession: 45},
	{Name: "Aquaman Swim Session", Description: "Underwater endurance training", Category: "Cardio", Difficulty: "Medium", Duration: 30, CaloriesPerSession: 300, PointsPerSession: 40},
	{Name: "Iron Man Core Circuit", Description: "Advanced core strengthening routine", Category: "Core", Difficulty: "Medium", Duration: 25, CaloriesPerSession: 250, PointsPerSession: 35},
}

var activityTypes = []string{"Running", "Swimming", "Cycling", "Weight Training", "Yoga", "Boxing", "HIIT"}
