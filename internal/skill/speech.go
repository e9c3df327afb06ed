package skill

import "fmt"

// Spoken replies; the skill is published for es-ES.
const (
	msgWelcome       = "Bienvenido a YouTube. ¿Qué quieres escuchar o ver?"
	msgAskSearch     = "¿Qué quieres buscar en YouTube?"
	msgAskChannel    = "¿De qué canal quieres buscar el último video?"
	msgAskSong       = "¿Qué canción quieres escuchar?"
	msgUpstreamError = "Hubo un problema contactando con YouTube."
	msgSongError     = "Error al buscar la canción."
	msgNoAudio       = "No pude obtener el audio."
	msgCannotResume  = "Lo siento, no puedo reanudar la reproducción aún."
	msgHelp          = "Puedes pedirme que busque videos, ponga música o busque listas de reproducción."
	msgGoodbye       = "Adiós!"
	msgGenericError  = "Lo siento, hubo un error. Intenta de nuevo."
)

func msgPlaying(title, channel string) string {
	return fmt.Sprintf("Reproduciendo %s del canal %s.", title, channel)
}

func msgPlayingLatest(channel, title string) string {
	return fmt.Sprintf("Reproduciendo el último video de %s: %s.", channel, title)
}

func msgPlayingSong(title string) string {
	return fmt.Sprintf("Reproduciendo %s.", title)
}

func msgNoAudioFor(title string) string {
	return fmt.Sprintf("Lo siento, no pude extraer el audio de %s.", title)
}

func msgNoAudioLatest(title string) string {
	return fmt.Sprintf("Encontré el video %s pero no pude obtener el audio.", title)
}

func msgNoVideos(query string) string {
	return fmt.Sprintf("No encontré videos para %s.", query)
}

func msgNoRecent(channel string) string {
	return fmt.Sprintf("No encontré videos recientes en el canal %s.", channel)
}

func msgNoChannel(channel string) string {
	return fmt.Sprintf("No encontré ningún canal llamado %s.", channel)
}

func msgNoSong(query string) string {
	return fmt.Sprintf("No encontré la canción %s.", query)
}
