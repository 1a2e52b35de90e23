package bot

// Тексты сообщений бота. Боты подключаются владельцами компаний для своих
// клиентов, поэтому все сообщения на русском.
const (
	msgChooseDate = "Здравствуйте! Выберите удобную дату для записи:"

	msgChooseTime = "Выберите удобное время на %s:"

	msgChooseService = "Выберите услугу:"

	msgAskContact = "Отправьте контактные данные одним сообщением:\n\n" +
		"Первая строка — имя\n" +
		"Вторая строка — телефон\n" +
		"Третья строка — email (необязательно)"

	msgContactRetry = "Не удалось разобрать контактные данные.\n\n" +
		"Отправьте имя и телефон с новой строки, например:\n" +
		"Иван Петров\n+7 900 123-45-67"

	msgConfirm = "Проверьте данные записи:\n\n" +
		"Услуга: <b>%s</b>\n" +
		"Дата: <b>%s</b>\n" +
		"Время: <b>%s</b>\n" +
		"Имя: %s\n" +
		"Телефон: %s"

	msgBookingCreated = "✅ Вы записаны!\n\n" +
		"Услуга: <b>%s</b>\n" +
		"Дата: <b>%s</b>\n" +
		"Время: <b>%s</b>\n\n" +
		"Ждем вас!"

	msgBookingCancelled = "Запись отменена. Чтобы начать заново, отправьте /book"

	msgSlotTaken = "К сожалению, это время уже недоступно. " +
		"Начните запись заново: /book"

	msgNoSlotsOnDate = "На эту дату нет свободного времени. Выберите другую дату:"

	msgNoDates = "Сейчас нет доступных дат для записи. Попробуйте позже."

	msgNoServices = "Сейчас нет доступных услуг для записи. Попробуйте позже."

	msgHelp = "Я помогу записаться на услугу.\n\n" +
		"/book — начать запись\n" +
		"/cancel — прервать текущую запись\n" +
		"/help — эта справка"

	msgError = "Произошла ошибка. Попробуйте позже."
)
