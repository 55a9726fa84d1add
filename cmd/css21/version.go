package main

const css21Version = "0.1.0"
