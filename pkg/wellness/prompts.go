package wellness

import "time"

var journalPrompts = map[string][]string{
	"en": {
		"What made you smile today?",
		"What's weighing on your mind right now?",
		"Describe a moment of peace you experienced recently.",
		"What's something you're looking forward to?",
		"Write about someone who made a difference in your life.",
		"What would your ideal day look like?",
		"What's a challenge you overcame recently?",
		"What do you need to let go of?",
		"Write a letter to your future self.",
		"What are three things that make you feel calm?",
	},
	"es": {
		"¿Qué te hizo sonreír hoy?",
		"¿Qué está ocupando tu mente ahora mismo?",
		"Describe un momento de paz que experimentaste recientemente.",
		"¿Qué es algo que esperas con ilusión?",
		"Escribe sobre alguien que marcó una diferencia en tu vida.",
		"¿Cómo sería tu día ideal?",
		"¿Cuál es un desafío que superaste recientemente?",
		"¿Qué necesitas soltar?",
		"Escribe una carta a tu yo del futuro.",
		"¿Cuáles son tres cosas que te hacen sentir en calma?",
	},
}

var affirmations = map[string][]string{
	"en": {
		"Take a deep breath. You're doing great.",
		"What small thing brought you joy today?",
		"Remember: progress, not perfection.",
		"You are worthy of peace and happiness.",
		"One step at a time. You've got this.",
		"What are you grateful for right now?",
		"Be gentle with yourself today.",
		"Your feelings are valid. All of them.",
		"You don't have to have it all figured out.",
		"Rest is not laziness. It's recovery.",
		"What would you tell a friend in your situation?",
		"Small steps still move you forward.",
		"You've survived 100% of your hard days.",
		"It's okay to ask for help.",
		"Your best is enough. Always.",
		"This moment will pass. Breathe through it.",
		"You are more resilient than you know.",
		"What's one thing you did well today?",
		"Pause. You don't have to react right now.",
		"Your peace matters. Protect it.",
		"Celebrate small wins. They add up.",
		"You are not your anxious thoughts.",
		"Tomorrow is a fresh start.",
		"It's okay to say no.",
		"You bring value to the world just by being you.",
		"Let go of what you can't control.",
		"Your journey is unique. Don't compare.",
		"Kindness to yourself is not selfish.",
		"You've grown so much. Acknowledge it.",
		"This feeling is temporary. You are not.",
	},
	"es": {
		"Respira profundo. Lo estás haciendo muy bien.",
		"¿Qué pequeña cosa te trajo alegría hoy?",
		"Recuerda: progreso, no perfección.",
		"Mereces paz y felicidad.",
		"Un paso a la vez. Tú puedes.",
		"¿Por qué estás agradecido/a ahora mismo?",
		"Sé amable contigo mismo/a hoy.",
		"Tus sentimientos son válidos. Todos ellos.",
		"No tienes que tenerlo todo resuelto.",
		"Descansar no es pereza. Es recuperación.",
		"¿Qué le dirías a un amigo en tu situación?",
		"Los pequeños pasos también te mueven adelante.",
		"Has sobrevivido el 100% de tus días difíciles.",
		"Está bien pedir ayuda.",
		"Tu mejor esfuerzo es suficiente. Siempre.",
		"Este momento pasará. Respira.",
		"Eres más fuerte de lo que crees.",
		"¿Qué hiciste bien hoy?",
		"Pausa. No tienes que reaccionar ahora mismo.",
		"Tu paz importa. Protégela.",
		"Celebra las pequeñas victorias. Se acumulan.",
		"No eres tus pensamientos de ansiedad.",
		"Mañana es un nuevo comienzo.",
		"Está bien decir que no.",
		"Aportas valor al mundo solo por ser tú.",
		"Suelta lo que no puedes controlar.",
		"Tu camino es único. No te compares.",
		"Ser amable contigo mismo/a no es egoísta.",
		"Has crecido mucho. Reconócelo.",
		"Este sentimiento es temporal. Tú no lo eres.",
	},
}

func localized(m map[string][]string, lang string) []string {
	if l, ok := m[lang]; ok {
		return l
	}
	return m["en"]
}

// PromptOfDay returns the journal prompt for t's day of the month.
func PromptOfDay(lang string, t time.Time) string {
	p := localized(journalPrompts, lang)
	return p[t.Day()%len(p)]
}

// Affirmation returns the daily message for t. It is stable for a calendar
// day and seeded by the byte sum of the date written as "Mon Jan 02 2006".
func Affirmation(lang string, t time.Time) string {
	p := localized(affirmations, lang)
	seed := 0
	for _, c := range []byte(t.Format("Mon Jan 02 2006")) {
		seed += int(c)
	}
	return p[seed%len(p)]
}
