package entity

import "time"

type Feedback struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Comment   string    `json:"feedback"`
	Rating    int       `json:"rating"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

/*
Mysql Table

CREATE TABLE feedbacks (
	seq BIGINT AUTO_INCREMENT PRIMARY KEY,
	id CHAR(36) NOT NULL UNIQUE,
	name VARCHAR(100) NOT NULL,
	feedback VARCHAR(500) NOT NULL,
	rating TINYINT NOT NULL,
	avatar_url VARCHAR(512) NOT NULL,
	created_at DATETIME(3) NOT NULL
);
*/
