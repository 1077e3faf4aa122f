package session

// Demo returns the sample week used to seed an empty store.
func Demo() []Session {
	return []Session{
		{ID: "1", Formateur: "Prof. Smith", Groupe: "Group A", Module: "Mathematics", Jour: Lundi, Creneau: 1, Salle: "Room 101"},
		{ID: "2", Formateur: "Dr. Johnson", Groupe: "Group B", Module: "Physics", Jour: Mardi, Creneau: 2, Salle: "Lab 202"},
		{ID: "3", Formateur: "Mrs. Williams", Groupe: "Group C", Module: "Chemistry", Jour: Mercredi, Creneau: 3, Salle: "Lab 303"},
		{ID: "4", Formateur: "Mr. Brown", Groupe: "Group A", Module: "Computer Science", Jour: Jeudi, Creneau: 4, Salle: "Room 404"},
		{ID: "5", Formateur: "Prof. Davis", Groupe: "Group D", Module: "Biology", Jour: Vendredi, Creneau: 1, Salle: "Lab 505"},
		{ID: "6", Formateur: "Dr. Miller", Groupe: "Group B", Module: "Literature", Jour: Samedi, Creneau: 2, Salle: "Room 606"},
	}
}
