package tts

// VoiceCatalog lists the supported voice presets grouped by category. The
// entries mirror the Bark speaker embeddings shipped with suno/bark-small;
// whether a preset actually exists is only discovered by the model itself.
func VoiceCatalog() map[string][]string {
	return map[string][]string{
		"English Female Voices": {
			"v2/en_speaker_0",
			"v2/en_speaker_1",
			"v2/en_speaker_2",
			"v2/en_speaker_4",
			"v2/en_speaker_6",
			"v2/en_speaker_9",
		},
		"English Male Voices": {
			"v2/en_speaker_3",
			"v2/en_speaker_5",
			"v2/en_speaker_7",
			"v2/en_speaker_8",
		},
		// Same speaker IDs as above, regrouped by narration character.
		"Celebrity/Character Voices": {
			"v2/en_speaker_0",
			"v2/en_speaker_1",
			"v2/en_speaker_2",
			"v2/en_speaker_3",
			"v2/en_speaker_4",
			"v2/en_speaker_5",
			"v2/en_speaker_6",
			"v2/en_speaker_7",
			"v2/en_speaker_8",
			"v2/en_speaker_9",
		},
		"Other Languages": {
			"v2/es_speaker_0",
			"v2/fr_speaker_0",
			"v2/de_speaker_0",
			"v2/it_speaker_0",
			"v2/pt_speaker_0",
			"v2/pl_speaker_0",
			"v2/zh_speaker_0",
			"v2/ja_speaker_0",
			"v2/hi_speaker_0",
			"v2/tr_speaker_0",
			"v2/ko_speaker_0",
		},
	}
}
