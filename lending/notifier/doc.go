// Package notifier reminds borrowers about loans that are due soon.
//
// A Scanner lists the due-soon loans on an interval and hands one DueSoonReminder per loan
// to a Publisher. AMQPPublisher sends them to a RabbitMQ topic exchange, LogPublisher only logs them.
package notifier
